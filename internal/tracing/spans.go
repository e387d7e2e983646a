package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanLive       = "highlight.live"
	SpanToggle     = "highlight.persistent.toggle"
	SpanRender     = "highlight.persistent.render"
	SpanClear      = "highlight.persistent.clear"
	SpanDictionary = "segment.dictionary.load"
)

// Span attribute keys.
const (
	AttrInteraction = "interaction.kind"
	AttrWord        = "word.text"
	AttrWordLength  = "word.length"
	AttrMatches     = "search.matches"
	AttrWindowed    = "search.windowed"
	AttrBufferSize  = "buffer.size"
	AttrListSize    = "persistent.words"
	AttrState       = "highlight.state"
	AttrAdded       = "persistent.added"
)

// Start begins a span on tracer, falling back to the tracer carried by ctx
// when tracer is nil.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = trace.SpanFromContext(ctx).TracerProvider().Tracer(ServiceName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Fail marks span as failed with err.
func Fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
