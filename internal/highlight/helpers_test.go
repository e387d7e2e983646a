package highlight

import (
	"errors"

	"github.com/zjrosen/cursorword/internal/locator"
	"github.com/zjrosen/cursorword/internal/pattern"
	"github.com/zjrosen/cursorword/internal/scanner"
	"github.com/zjrosen/cursorword/internal/segment"
	"github.com/zjrosen/cursorword/internal/span"
)

// wholeCutter never splits a coarse word.
type wholeCutter struct{}

func (wholeCutter) Cut(text string, _ ...bool) []string { return []string{text} }

func newLocator() *locator.Locator {
	return locator.New(segment.NewStatic(wholeCutter{}))
}

func newScanner() *scanner.Scanner {
	return scanner.New(pattern.NewCompiler())
}

// brokenSurface fails every decoration call but records status messages.
type brokenSurface struct {
	*Canvas
	calls int
}

func (b *brokenSurface) SetGroup(string, []span.Span, Style) error {
	b.calls++
	return errors.New("view closed")
}

func (b *brokenSurface) ClearGroup(string) error {
	b.calls++
	return errors.New("view closed")
}

func caret(offset int) []span.Span {
	return []span.Span{{Start: offset, End: offset}}
}
