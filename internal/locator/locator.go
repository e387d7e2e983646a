// Package locator finds the word under the caret, refining the host's coarse
// word boundary with dictionary segmentation where the script needs it.
package locator

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/zjrosen/cursorword/internal/buffer"
	"github.com/zjrosen/cursorword/internal/span"
)

// Tokenizer partitions text into ordered sub-tokens.
type Tokenizer interface {
	Segment(text string) iter.Seq[string]
}

// Locator resolves caret offsets and selections to words.
type Locator struct {
	tok Tokenizer
}

// New returns a Locator that refines coarse words with tok.
func New(tok Tokenizer) *Locator {
	return &Locator{tok: tok}
}

// Locate returns the sub-token containing caret. Sub-tokens are walked left
// to right from the start of the coarse word; the first one whose span
// contains caret wins. It reports false when none does.
func (l *Locator) Locate(buf buffer.Buffer, caret int) (span.Token, bool) {
	coarse := buf.WordAt(caret)
	text := buf.Substr(coarse)

	offset := coarse.Start
	for sub := range l.tok.Segment(text) {
		n := utf8.RuneCountInString(sub)
		s := span.Span{Start: offset, End: offset + n}
		if s.Contains(caret) {
			return span.Token{Span: s, Text: sub}, true
		}
		offset += n
	}
	return span.Token{}, false
}

// ExactWord returns the coarse word of a non-empty selection, but only when
// the selection covers that word exactly. The text is trimmed.
func (l *Locator) ExactWord(buf buffer.Buffer, sel span.Span) (span.Token, bool) {
	if sel.Empty() {
		return span.Token{}, false
	}
	if buf.WordAtSpan(sel) != sel {
		return span.Token{}, false
	}
	return span.Token{Span: sel, Text: strings.TrimSpace(buf.Substr(sel))}, true
}

// CoarseWord returns the host's word at caret without segmentation, trimmed.
func (l *Locator) CoarseWord(buf buffer.Buffer, caret int) span.Token {
	s := buf.WordAt(caret)
	return span.Token{Span: s, Text: strings.TrimSpace(buf.Substr(s))}
}

// ActiveWord determines the word a selection refers to: the located word
// for a caret, the exact coarse word for a selection. The returned text is
// trimmed and may be empty.
func (l *Locator) ActiveWord(buf buffer.Buffer, sel span.Span) string {
	if sel.Empty() {
		tok, ok := l.Locate(buf, sel.Start)
		if !ok {
			return ""
		}
		return strings.TrimSpace(tok.Text)
	}
	tok, ok := l.ExactWord(buf, sel)
	if !ok {
		return ""
	}
	return tok.Text
}
