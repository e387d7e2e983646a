// Package scanner finds the occurrences of a search pattern in a buffer,
// bounding the cost of a scan on very large documents.
package scanner

import (
	"context"

	"github.com/zjrosen/cursorword/internal/buffer"
	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/log"
	"github.com/zjrosen/cursorword/internal/pattern"
	"github.com/zjrosen/cursorword/internal/span"
)

// Scanner runs searches through a caching pattern compiler.
type Scanner struct {
	compiler *pattern.Compiler
}

// New returns a Scanner compiling patterns with compiler.
func New(compiler *pattern.Compiler) *Scanner {
	return &Scanner{compiler: compiler}
}

// Scan returns the occurrences of source in buf, left to right.
//
// Buffers smaller than the configured size threshold are searched in full.
// Larger buffers are searched from the start of Window onward, stopping after
// the first match that ends past the window; that match is still returned
// unless it starts past the window too. This departs on purpose from the
// original plugin, which also kept a first match lying wholly past the
// window: here no result starts beyond the window end, so results exceed it
// by at most one match length. An empty source yields nothing.
func (s *Scanner) Scan(ctx context.Context, buf buffer.Buffer, source string, settings config.Settings) []span.Span {
	if source == "" {
		return nil
	}
	p, ok := s.compile(ctx, source, settings.Mode)
	if !ok {
		return nil
	}
	if buf.Size() < settings.SizeThreshold {
		return buf.FindAll(p)
	}

	window := Window(buf.VisibleViewport(), settings.WindowRadius)
	log.Debug(log.CatSearch, "Windowed scan", "size", buf.Size(), "window", window.String())

	var out []span.Span
	from := window.Start
	for {
		m, found := buf.FindNext(p, from)
		if !found || m.Start > window.End {
			break
		}
		out = append(out, m)
		if m.End > window.End {
			break
		}
		from = m.End
		if m.Empty() {
			// step past zero-width matches
			from++
		}
	}
	return out
}

// ScanAll returns every occurrence of source in buf regardless of its size.
func (s *Scanner) ScanAll(ctx context.Context, buf buffer.Buffer, source string, mode pattern.MatchMode) []span.Span {
	if source == "" {
		return nil
	}
	p, ok := s.compile(ctx, source, mode)
	if !ok {
		return nil
	}
	return buf.FindAll(p)
}

func (s *Scanner) compile(ctx context.Context, source string, mode pattern.MatchMode) (*pattern.Pattern, bool) {
	p, err := s.compiler.Compile(ctx, source, mode)
	if err != nil {
		log.ErrorErr(log.CatSearch, "Pattern did not compile", err, "pattern", source)
		return nil, false
	}
	return p, true
}

// Window returns the region a windowed scan covers: the viewport widened by
// radius on each side, clipped at zero on the left. The right bound is not
// clipped; matches simply stop at the end of the buffer.
func Window(viewport span.Span, radius int) span.Span {
	return span.Span{
		Start: max(0, viewport.Start-radius),
		End:   viewport.End + radius,
	}
}
