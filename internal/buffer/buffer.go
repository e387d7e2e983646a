// Package buffer defines what the highlighter needs from an editor buffer and
// provides Document, an in-memory implementation used by the CLI, the viewer
// and the tests.
package buffer

import (
	"github.com/zjrosen/cursorword/internal/pattern"
	"github.com/zjrosen/cursorword/internal/span"
)

// Buffer is the host editor's text buffer. All offsets are rune offsets.
type Buffer interface {
	// Size returns the buffer length in runes.
	Size() int
	// Substr returns the text covered by s, clamped to the buffer.
	Substr(s span.Span) string
	// WordAt returns the host's coarse word around offset. The coarse word
	// is a maximal run of word characters, separators or whitespace; at the
	// end of a word it is the word just before offset.
	WordAt(offset int) span.Span
	// WordAtSpan expands s outward to coarse word boundaries on both sides.
	WordAtSpan(s span.Span) span.Span
	// FindAll returns every match of p in the buffer, left to right.
	FindAll(p *pattern.Pattern) []span.Span
	// FindNext returns the first match of p starting at or after from.
	FindNext(p *pattern.Pattern, from int) (span.Span, bool)
	// VisibleViewport returns the span currently shown to the user.
	VisibleViewport() span.Span
}
