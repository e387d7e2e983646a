package highlight

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/cursorword/internal/buffer"
	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/locator"
	"github.com/zjrosen/cursorword/internal/log"
	"github.com/zjrosen/cursorword/internal/pattern"
	"github.com/zjrosen/cursorword/internal/scanner"
	"github.com/zjrosen/cursorword/internal/span"
	"github.com/zjrosen/cursorword/internal/tracing"
)

// LiveKey names the live decoration group and status entry.
const LiveKey = "CursorWordHighlighter"

// State is the live highlighter's state.
type State int

const (
	StateIdle State = iota
	StateHighlighting
)

func (s State) String() string {
	if s == StateHighlighting {
		return "highlighting"
	}
	return "idle"
}

// Live highlights the occurrences of the word under the caret.
type Live struct {
	locator *locator.Locator
	scanner *scanner.Scanner
	surface Surface
	tracer  trace.Tracer

	state State
	word  string
	spans []span.Span
}

// NewLive returns an idle Live highlighter drawing on surface. A nil tracer
// disables tracing.
func NewLive(loc *locator.Locator, sc *scanner.Scanner, surface Surface, tracer trace.Tracer) *Live {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Live{locator: loc, scanner: sc, surface: surface, tracer: tracer}
}

// State returns the current state.
func (l *Live) State() State { return l.state }

// Word returns the highlighted word, "" when idle.
func (l *Live) Word() string { return l.word }

// Occurrences returns the highlighted spans.
func (l *Live) Occurrences() []span.Span { return l.spans }

// Handle reacts to one interaction. Only a single selection is tracked: with
// none or several, live decorations are cleared. Decoration failures are
// logged and do not change the outcome.
func (l *Live) Handle(ctx context.Context, buf buffer.Buffer, sels []span.Span, kind Kind, settings config.Settings) State {
	ctx, sp := tracing.Start(ctx, l.tracer, tracing.SpanLive,
		attribute.String(tracing.AttrInteraction, kind.String()),
		attribute.Int(tracing.AttrBufferSize, buf.Size()))
	defer func() {
		sp.SetAttributes(
			attribute.String(tracing.AttrState, l.state.String()),
			attribute.String(tracing.AttrWord, l.word),
			attribute.Int(tracing.AttrMatches, len(l.spans)))
		sp.End()
	}()

	if !settings.Enabled || len(sels) != 1 {
		return l.idle()
	}

	word := l.locator.ActiveWord(buf, sels[0])
	if word == "" || utf8.RuneCountInString(word) < settings.MinLength {
		return l.idle()
	}
	if strings.ContainsAny(word, settings.Separators) {
		return l.idle()
	}

	source := pattern.Build(word, settings.PatternOptions())
	spans := l.scanner.Scan(ctx, buf, source, settings)
	if len(spans) == 0 {
		return l.idle()
	}

	style := Style{Scope: settings.ColorScope, Icon: settings.GutterIcon, Draw: settings.DrawStyle}
	if err := l.surface.SetGroup(LiveKey, spans, style); err != nil {
		log.ErrorErr(log.CatHighlight, "Failed to set live decorations", err, "word", word)
	}
	l.surface.SetStatus(LiveKey, StatusMessage(word, len(spans)))

	l.state, l.word, l.spans = StateHighlighting, word, spans
	log.Debug(log.CatHighlight, "Highlighted", "word", word, "matches", len(spans), "kind", kind.String())
	return l.state
}

// Clear drops live decorations and returns to idle.
func (l *Live) Clear() {
	l.idle()
}

func (l *Live) idle() State {
	if err := l.surface.ClearGroup(LiveKey); err != nil {
		log.ErrorErr(log.CatHighlight, "Failed to clear live decorations", err)
	}
	l.surface.EraseStatus(LiveKey)
	l.state, l.word, l.spans = StateIdle, "", nil
	return l.state
}

// StatusMessage renders the occurrence count shown in the status line.
func StatusMessage(word string, n int) string {
	noun := "occurrences"
	if n == 1 {
		noun = "occurrence"
	}
	return fmt.Sprintf(`%d %s of "%s"`, n, noun, word)
}
