package highlight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/cursorword/internal/buffer"
	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/span"
	"github.com/zjrosen/cursorword/internal/tracing"
)

func newLive(surface Surface) *Live {
	return NewLive(newLocator(), newScanner(), surface, nil)
}

func TestLive_HighlightsWordUnderCaret(t *testing.T) {
	canvas := NewCanvas()
	live := newLive(canvas)
	buf := buffer.NewDocument("foo bar foo", buffer.DefaultSeparators)

	state := live.Handle(context.Background(), buf, caret(0), KindCaretMove, config.DefaultSettings())
	require.Equal(t, StateHighlighting, state)
	require.Equal(t, "foo", live.Word())

	want := []span.Span{{Start: 0, End: 3}, {Start: 8, End: 11}}
	require.Equal(t, want, live.Occurrences())

	g, ok := canvas.Group(LiveKey)
	require.True(t, ok)
	require.Equal(t, want, g.Spans)
	require.Equal(t, Style{Scope: "comment", Draw: config.DrawOutline}, g.Style)

	msg, ok := canvas.Status(LiveKey)
	require.True(t, ok)
	require.Equal(t, `2 occurrences of "foo"`, msg)
}

func TestLive_GutterIconAndFill(t *testing.T) {
	cfg := config.Defaults()
	cfg.Highlight.MarkOccurrencesOnGutter = true
	cfg.Highlight.DrawOutlined = false
	canvas := NewCanvas()
	buf := buffer.NewDocument("foo bar foo", buffer.DefaultSeparators)

	newLive(canvas).Handle(context.Background(), buf, caret(5), KindCaretMove, config.Resolve(cfg))

	g, ok := canvas.Group(LiveKey)
	require.True(t, ok)
	require.Equal(t, Style{Scope: "comment", Icon: "dot", Draw: config.DrawFill}, g.Style)
	msg, _ := canvas.Status(LiveKey)
	require.Equal(t, `1 occurrence of "bar"`, msg)
}

func TestLive_PartialSelectionGoesIdle(t *testing.T) {
	canvas := NewCanvas()
	live := newLive(canvas)
	buf := buffer.NewDocument("foobar baz", buffer.DefaultSeparators)
	settings := config.DefaultSettings()

	require.Equal(t, StateHighlighting, live.Handle(context.Background(), buf, caret(8), KindCaretMove, settings))

	state := live.Handle(context.Background(), buf, []span.Span{{Start: 3, End: 6}}, KindDragSelect, settings)
	require.Equal(t, StateIdle, state)
	require.Empty(t, canvas.Keys())
	require.Equal(t, "", canvas.StatusText())
	require.Equal(t, "", live.Word())
	require.Nil(t, live.Occurrences())
}

func TestLive_ExactSelectionHighlights(t *testing.T) {
	live := newLive(NewCanvas())
	buf := buffer.NewDocument("foobar baz foobar", buffer.DefaultSeparators)

	state := live.Handle(context.Background(), buf, []span.Span{{Start: 0, End: 6}}, KindDragSelect, config.DefaultSettings())
	require.Equal(t, StateHighlighting, state)
	require.Equal(t, "foobar", live.Word())
	require.Len(t, live.Occurrences(), 2)
}

func TestLive_IdleCases(t *testing.T) {
	buf := buffer.NewDocument("foo bar a  foo", buffer.DefaultSeparators)

	disabled := config.DefaultSettings()
	disabled.Enabled = false

	separated := config.DefaultSettings()
	separated.Separators = "o"

	tests := []struct {
		name     string
		sels     []span.Span
		settings config.Settings
	}{
		{"no selection", nil, config.DefaultSettings()},
		{"several selections", []span.Span{{Start: 0, End: 0}, {Start: 4, End: 4}}, config.DefaultSettings()},
		{"disabled", caret(0), disabled},
		{"whitespace under caret", caret(10), config.DefaultSettings()},
		{"shorter than minimum", caret(8), config.DefaultSettings()},
		{"contains a separator", caret(0), separated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canvas := NewCanvas()
			live := newLive(canvas)
			require.Equal(t, StateHighlighting,
				live.Handle(context.Background(), buf, caret(4), KindCaretMove, config.DefaultSettings()))

			require.Equal(t, StateIdle, live.Handle(context.Background(), buf, tt.sels, KindCaretMove, tt.settings))
			_, ok := canvas.Group(LiveKey)
			require.False(t, ok)
			_, ok = canvas.Status(LiveKey)
			require.False(t, ok)
		})
	}
}

func TestLive_MinimumLengthZeroAllowsSingleRune(t *testing.T) {
	settings := config.DefaultSettings()
	settings.MinLength = 0
	live := newLive(NewCanvas())
	buf := buffer.NewDocument("a b a", buffer.DefaultSeparators)

	require.Equal(t, StateHighlighting, live.Handle(context.Background(), buf, caret(0), KindMotion, settings))
	require.Equal(t, []span.Span{{Start: 0, End: 1}, {Start: 4, End: 5}}, live.Occurrences())
}

func TestLive_DecorationFailuresAreNotFatal(t *testing.T) {
	surface := &brokenSurface{Canvas: NewCanvas()}
	live := newLive(surface)
	buf := buffer.NewDocument("foo bar foo", buffer.DefaultSeparators)
	settings := config.DefaultSettings()

	require.Equal(t, StateHighlighting, live.Handle(context.Background(), buf, caret(0), KindCaretMove, settings))
	msg, _ := surface.Status(LiveKey)
	require.Equal(t, `2 occurrences of "foo"`, msg)

	require.Equal(t, StateHighlighting, live.Handle(context.Background(), buf, caret(5), KindCaretMove, settings))
	require.Equal(t, "bar", live.Word())

	live.Clear()
	require.Equal(t, StateIdle, live.State())
	require.Equal(t, 3, surface.calls)
}

func TestLive_RecordsSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	live := NewLive(newLocator(), newScanner(), NewCanvas(), tp.Tracer("test"))
	buf := buffer.NewDocument("foo bar foo", buffer.DefaultSeparators)

	live.Handle(context.Background(), buf, caret(0), KindCaretMove, config.DefaultSettings())

	ended := rec.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, tracing.SpanLive, ended[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	require.Equal(t, "caret_move", attrs[tracing.AttrInteraction].AsString())
	require.Equal(t, "highlighting", attrs[tracing.AttrState].AsString())
	require.Equal(t, "foo", attrs[tracing.AttrWord].AsString())
	require.Equal(t, int64(2), attrs[tracing.AttrMatches].AsInt64())
	require.Equal(t, int64(11), attrs[tracing.AttrBufferSize].AsInt64())
}

func TestStatusMessage(t *testing.T) {
	require.Equal(t, `1 occurrence of "x"`, StatusMessage("x", 1))
	require.Equal(t, `3 occurrences of "測試"`, StatusMessage("測試", 3))
}
