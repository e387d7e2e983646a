package pattern

import (
	"context"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/zjrosen/cursorword/internal/cachemanager"
	"github.com/zjrosen/cursorword/internal/log"
	"github.com/zjrosen/cursorword/internal/span"
)

// MatchMode selects case handling for a compiled pattern.
type MatchMode int

const (
	CaseSensitive MatchMode = iota
	IgnoreCase
)

func (m MatchMode) String() string {
	if m == IgnoreCase {
		return "ignore-case"
	}
	return "case-sensitive"
}

func (m MatchMode) options() regexp2.RegexOptions {
	if m == IgnoreCase {
		return regexp2.IgnoreCase
	}
	return regexp2.None
}

// Pattern is a compiled search pattern. Offsets it reports are rune offsets.
type Pattern struct {
	source string
	mode   MatchMode
	re     *regexp2.Regexp
}

// Compile compiles source under mode.
func Compile(source string, mode MatchMode) (*Pattern, error) {
	re, err := regexp2.Compile(source, mode.options())
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", source, err)
	}
	return &Pattern{source: source, mode: mode, re: re}, nil
}

// Source returns the pattern text.
func (p *Pattern) Source() string {
	return p.source
}

// Mode returns the case handling the pattern was compiled with.
func (p *Pattern) Mode() MatchMode {
	return p.mode
}

// FindAll returns every non-overlapping match in text, left to right.
func (p *Pattern) FindAll(text []rune) []span.Span {
	var out []span.Span
	m, err := p.re.FindRunesMatch(text)
	for m != nil && err == nil {
		out = append(out, span.Span{Start: m.Index, End: m.Index + m.Length})
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		log.ErrorErr(log.CatSearch, "Match aborted", err, "pattern", p.source)
	}
	return out
}

// FindNext returns the first match starting at or after from. Look-behind
// still sees the runes before from.
func (p *Pattern) FindNext(text []rune, from int) (span.Span, bool) {
	if from < 0 {
		from = 0
	}
	if from > len(text) {
		return span.Span{}, false
	}
	m, err := p.re.FindRunesMatchStartingAt(text, from)
	if err != nil {
		log.ErrorErr(log.CatSearch, "Match aborted", err, "pattern", p.source, "from", from)
		return span.Span{}, false
	}
	if m == nil {
		return span.Span{}, false
	}
	return span.Span{Start: m.Index, End: m.Index + m.Length}, true
}

type compileInput struct {
	source string
	mode   MatchMode
}

// Compiler compiles patterns through a cache, so moving the caret back and
// forth over the same words does not recompile them.
type Compiler struct {
	cache *cachemanager.ReadThroughCache[string, *Pattern, compileInput]
	ttl   time.Duration
}

// NewCompiler returns a Compiler with an in-memory cache.
func NewCompiler() *Compiler {
	manager := cachemanager.NewInMemoryCacheManager[string, *Pattern](
		"patterns", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	return NewCompilerWithCache(manager)
}

// NewCompilerWithCache returns a Compiler backed by cache.
func NewCompilerWithCache(cache cachemanager.CacheManager[string, *Pattern]) *Compiler {
	compile := func(_ context.Context, in compileInput) (*Pattern, error) {
		return Compile(in.source, in.mode)
	}
	return &Compiler{
		cache: cachemanager.NewReadThroughCache(cache, compile, false),
		ttl:   cachemanager.DefaultExpiration,
	}
}

// Stats reports how often Compile was answered from the cache.
func (c *Compiler) Stats() cachemanager.Stats {
	return c.cache.Stats()
}

// Compile returns the compiled form of source under mode.
func (c *Compiler) Compile(ctx context.Context, source string, mode MatchMode) (*Pattern, error) {
	key := mode.String() + "\x00" + source
	return c.cache.Get(ctx, key, compileInput{source: source, mode: mode}, c.ttl)
}
