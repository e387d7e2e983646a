// Package segment splits runs of unsegmented script (Chinese, Japanese kanji)
// into dictionary words.
//
// The dictionary is large and takes a while to load, so a Segmenter starts
// out degraded: until the background load finishes, Segment yields its whole
// input as a single token. Callers never wait for the load.
package segment

import (
	"fmt"
	"iter"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-ego/gse"

	"github.com/zjrosen/cursorword/internal/log"
)

// Cutter is the dictionary segmentation primitive. *gse.Segmenter satisfies it.
type Cutter interface {
	Cut(text string, hmm ...bool) []string
}

// LoadFunc builds a Cutter. It runs on a background goroutine.
type LoadFunc func() (Cutter, error)

// Segmenter adapts a Cutter that becomes available asynchronously.
type Segmenter struct {
	load   LoadFunc
	once   sync.Once
	done   chan struct{}
	cutter atomic.Pointer[cutterRef]
	err    atomic.Pointer[error]
}

type cutterRef struct {
	Cutter
}

// New returns a Segmenter that will obtain its Cutter from load once Start
// is called. A nil load leaves the segmenter permanently in fallback mode.
func New(load LoadFunc) *Segmenter {
	return &Segmenter{
		load: load,
		done: make(chan struct{}),
	}
}

// NewDictionary returns a Segmenter backed by gse. An empty dictPath loads
// gse's embedded dictionary; otherwise the given dictionary file is used.
func NewDictionary(dictPath string) *Segmenter {
	return New(DictionaryLoader(dictPath))
}

// DictionaryLoader returns the LoadFunc NewDictionary uses.
func DictionaryLoader(dictPath string) LoadFunc {
	return func() (Cutter, error) {
		// gse reports progress through the standard logger, which would
		// draw over the viewer; progress goes through CatSegment instead.
		seg := &gse.Segmenter{SkipLog: true}
		var err error
		if dictPath == "" {
			err = seg.LoadDictEmbed()
		} else {
			err = seg.LoadDict(dictPath)
		}
		if err != nil {
			return nil, fmt.Errorf("loading dictionary: %w", err)
		}
		return seg, nil
	}
}

// NewStatic returns a Segmenter that is ready immediately.
func NewStatic(c Cutter) *Segmenter {
	s := New(nil)
	s.cutter.Store(&cutterRef{c})
	s.once.Do(func() { close(s.done) })
	return s
}

// Start triggers the background load. It returns immediately; calling it
// more than once has no further effect.
func (s *Segmenter) Start() {
	s.once.Do(func() {
		if s.load == nil {
			close(s.done)
			return
		}
		go s.run()
	})
}

func (s *Segmenter) run() {
	defer close(s.done)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("dictionary load panicked: %v", r)
			s.err.Store(&err)
			log.ErrorErr(log.CatSegment, "Dictionary load failed", err)
		}
	}()

	log.Debug(log.CatSegment, "Loading dictionary")
	c, err := s.load()
	if err != nil {
		s.err.Store(&err)
		log.ErrorErr(log.CatSegment, "Dictionary load failed", err)
		return
	}
	s.cutter.Store(&cutterRef{c})
	log.Info(log.CatSegment, "Dictionary ready")
}

// Ready reports whether dictionary segmentation is available.
func (s *Segmenter) Ready() bool {
	return s.cutter.Load() != nil
}

// Done is closed once the background load has finished, successfully or not.
func (s *Segmenter) Done() <-chan struct{} {
	return s.done
}

// Err returns the load error, if the load failed.
func (s *Segmenter) Err() error {
	if p := s.err.Load(); p != nil {
		return *p
	}
	return nil
}

// Segment yields the tokens of text in order. Concatenating them reproduces
// text exactly; empty text yields nothing.
func (s *Segmenter) Segment(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" {
			return
		}
		for _, tok := range s.tokens(text) {
			if !yield(tok) {
				return
			}
		}
	}
}

func (s *Segmenter) tokens(text string) []string {
	ref := s.cutter.Load()
	if ref == nil {
		return []string{text}
	}
	toks := ref.Cut(text, true)
	if !partitions(toks, text) {
		log.Warn(log.CatSegment, "Dictionary cut is not a partition, using whole text", "text", text, "tokens", len(toks))
		return []string{text}
	}
	return toks
}

// partitions reports whether toks concatenate to exactly text with no empty
// pieces.
func partitions(toks []string, text string) bool {
	rest := text
	for _, tok := range toks {
		if tok == "" || !strings.HasPrefix(rest, tok) {
			return false
		}
		rest = rest[len(tok):]
	}
	return rest == ""
}
