package cmd

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/locator"
	"github.com/zjrosen/cursorword/internal/log"
	"github.com/zjrosen/cursorword/internal/pattern"
	"github.com/zjrosen/cursorword/internal/scanner"
	"github.com/zjrosen/cursorword/internal/segment"
	"github.com/zjrosen/cursorword/internal/tracing"
)

// engine holds the components shared by the viewer and the subcommands.
type engine struct {
	segmenter *segment.Segmenter
	locator   *locator.Locator
	scanner   *scanner.Scanner
	provider  *tracing.Provider
}

func newEngine(cfg config.Config) (*engine, error) {
	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, err
	}
	seg := segment.New(tracedLoad(provider.Tracer(), cfg.Segment.Dictionary))
	return &engine{
		segmenter: seg,
		locator:   locator.New(seg),
		scanner:   scanner.New(pattern.NewCompiler()),
		provider:  provider,
	}, nil
}

// tracedLoad wraps the dictionary load in a span.
func tracedLoad(tracer trace.Tracer, dictPath string) segment.LoadFunc {
	load := segment.DictionaryLoader(dictPath)
	return func() (segment.Cutter, error) {
		_, sp := tracing.Start(context.Background(), tracer, tracing.SpanDictionary,
			attribute.String("segment.dictionary", dictPath))
		defer sp.End()
		c, err := load()
		if err != nil {
			tracing.Fail(sp, err)
		}
		return c, err
	}
}

// waitForDictionary starts the dictionary load and blocks until it ends.
// A failed load leaves the segmenter in fallback mode.
func (e *engine) waitForDictionary(ctx context.Context) {
	e.segmenter.Start()
	select {
	case <-e.segmenter.Done():
	case <-ctx.Done():
	}
}

func (e *engine) tracer() trace.Tracer {
	return e.provider.Tracer()
}

func (e *engine) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.provider.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
	}
}
