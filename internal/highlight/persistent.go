package highlight

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/cursorword/internal/buffer"
	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/docstate"
	"github.com/zjrosen/cursorword/internal/locator"
	"github.com/zjrosen/cursorword/internal/log"
	"github.com/zjrosen/cursorword/internal/pattern"
	"github.com/zjrosen/cursorword/internal/scanner"
	"github.com/zjrosen/cursorword/internal/span"
	"github.com/zjrosen/cursorword/internal/tracing"
)

// Document storage keys. The spelling is kept so existing stored lists
// keep working.
const (
	ListKey      = "cursor_word_highlighter_persistant_highlight_text"
	SizeKey      = "cursor_word_highlighter_persistant_highlight_size"
	GroupKeyBase = "cursor_word_highlighter_persistant_highlight_word_"
)

// GroupKey names the decoration group of the i-th persistent word.
func GroupKey(i int) string {
	return GroupKeyBase + strconv.Itoa(i)
}

// Persistent keeps a document's list of words highlighted.
type Persistent struct {
	locator *locator.Locator
	scanner *scanner.Scanner
	decor   Decorations
	tracer  trace.Tracer
}

// NewPersistent returns a Persistent highlighter. A nil tracer disables
// tracing.
func NewPersistent(loc *locator.Locator, sc *scanner.Scanner, decor Decorations, tracer trace.Tracer) *Persistent {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Persistent{locator: loc, scanner: sc, decor: decor, tracer: tracer}
}

// Load reads the document's stored word list.
func (p *Persistent) Load(ctx context.Context, store docstate.Store) (WordList, error) {
	text, err := store.String(ctx, ListKey, "")
	if err != nil {
		return WordList{}, fmt.Errorf("loading persistent words: %w", err)
	}
	return ParseWordList(text), nil
}

// Toggle adds the word under the first qualifying selection to the stored
// list, or removes it if already there, then re-renders. The list is
// re-rendered even when no selection qualifies.
func (p *Persistent) Toggle(ctx context.Context, buf buffer.Buffer, sels []span.Span, store docstate.Store, settings config.Settings) (WordList, error) {
	ctx, sp := p.start(ctx, tracing.SpanToggle)
	defer sp.End()

	list, err := p.Load(ctx, store)
	if err != nil {
		tracing.Fail(sp, err)
		return WordList{}, err
	}

	for _, sel := range sels {
		word := p.toggleWord(buf, sel)
		if word == "" || utf8.RuneCountInString(word) < settings.MinPersistentLength {
			continue
		}
		var added bool
		list, added = list.Toggle(word)
		sp.SetAttributes(attribute.String(tracing.AttrWord, word), attribute.Bool(tracing.AttrAdded, added))
		log.Debug(log.CatHighlight, "Toggled persistent word", "word", word, "added", added)
		break
	}

	if err := p.Render(ctx, buf, list, store, settings); err != nil {
		tracing.Fail(sp, err)
		return WordList{}, err
	}
	return list, nil
}

func (p *Persistent) toggleWord(buf buffer.Buffer, sel span.Span) string {
	if !sel.Empty() {
		tok, ok := p.locator.ExactWord(buf, sel)
		if !ok {
			return ""
		}
		return tok.Text
	}
	if word := p.locator.ActiveWord(buf, sel); word != "" {
		return word
	}
	return p.locator.CoarseWord(buf, sel.Start).Text
}

// Render clears the previously rendered groups and draws one group per
// distinct word, cycling through the palette. Words shorter than the
// persistent minimum length are skipped. The group count and list are
// stored so Clear can undo the render later.
func (p *Persistent) Render(ctx context.Context, buf buffer.Buffer, list WordList, store docstate.Store, settings config.Settings) error {
	ctx, sp := p.start(ctx, tracing.SpanRender)
	defer sp.End()

	if err := p.Clear(ctx, store); err != nil {
		tracing.Fail(sp, err)
		return err
	}

	size := 0
	for _, word := range list.Words() {
		if utf8.RuneCountInString(word) < settings.MinPersistentLength {
			continue
		}
		source := pattern.Build(word, settings.PatternOptions())
		spans := p.scanner.ScanAll(ctx, buf, source, settings.Mode)
		style := Style{Scope: settings.PaletteScope(size), Draw: config.DrawUnderline}
		if err := p.decor.SetGroup(GroupKey(size), spans, style); err != nil {
			log.ErrorErr(log.CatHighlight, "Failed to set persistent decorations", err, "word", word)
		}
		size++
	}
	sp.SetAttributes(attribute.Int(tracing.AttrListSize, size))

	if err := store.SetInt(ctx, SizeKey, size); err != nil {
		tracing.Fail(sp, err)
		return fmt.Errorf("storing persistent group count: %w", err)
	}
	if err := store.SetString(ctx, ListKey, list.String()); err != nil {
		tracing.Fail(sp, err)
		return fmt.Errorf("storing persistent words: %w", err)
	}
	return nil
}

// Clear erases every rendered persistent group and the stored list.
func (p *Persistent) Clear(ctx context.Context, store docstate.Store) error {
	ctx, sp := p.start(ctx, tracing.SpanClear)
	defer sp.End()

	size, err := store.Int(ctx, SizeKey, 0)
	if err != nil {
		// A corrupt count leaves nothing we can reliably erase.
		log.ErrorErr(log.CatStore, "Unreadable persistent group count", err)
		size = 0
	}
	for i := range size {
		if err := p.decor.ClearGroup(GroupKey(i)); err != nil {
			log.ErrorErr(log.CatHighlight, "Failed to clear persistent decorations", err, "group", i)
		}
	}

	if err := store.SetInt(ctx, SizeKey, 0); err != nil {
		tracing.Fail(sp, err)
		return fmt.Errorf("resetting persistent group count: %w", err)
	}
	if err := store.Erase(ctx, ListKey); err != nil {
		tracing.Fail(sp, err)
		return fmt.Errorf("erasing persistent words: %w", err)
	}
	return nil
}

func (p *Persistent) start(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracing.Start(ctx, p.tracer, name)
}
