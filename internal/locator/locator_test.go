package locator

import (
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/cursorword/internal/buffer"
	"github.com/zjrosen/cursorword/internal/pattern"
	"github.com/zjrosen/cursorword/internal/segment"
	"github.com/zjrosen/cursorword/internal/span"
)

// wordCutter cuts known words greedily, keeps runs of separated script
// whole and splits unknown ideographs one rune at a time.
type wordCutter []string

func (w wordCutter) Cut(text string, _ ...bool) []string {
	var out []string
	for text != "" {
		runes := []rune(text)
		n := 1
		for !pattern.IsUnsegmented(runes[0]) && n < len(runes) && !pattern.IsUnsegmented(runes[n]) {
			n++
		}
		next := string(runes[:n])
		for _, word := range w {
			if strings.HasPrefix(text, word) && len(word) > len(next) {
				next = word
			}
		}
		out = append(out, next)
		text = text[len(next):]
	}
	return out
}

// brokenTokenizer yields tokens that do not cover the text.
type brokenTokenizer struct{}

func (brokenTokenizer) Segment(string) iter.Seq[string] {
	return func(yield func(string) bool) { yield("x") }
}

func newLocator() *Locator {
	return New(segment.NewStatic(wordCutter{"測試", "你好", "就在", "今天"}))
}

func TestLocate_SeparatedScript(t *testing.T) {
	buf := buffer.NewDocument("foo bar foo", buffer.DefaultSeparators)

	tok, ok := newLocator().Locate(buf, 0)
	require.True(t, ok)
	require.Equal(t, span.Token{Span: span.Span{Start: 0, End: 3}, Text: "foo"}, tok)

	tok, ok = newLocator().Locate(buf, 5)
	require.True(t, ok)
	require.Equal(t, "bar", tok.Text)
	require.Equal(t, span.Span{Start: 4, End: 7}, tok.Span)
}

func TestLocate_RefinesUnsegmentedRun(t *testing.T) {
	buf := buffer.NewDocument("說 測試你好 了", buffer.DefaultSeparators)
	loc := newLocator()

	tok, ok := loc.Locate(buf, 3)
	require.True(t, ok)
	require.Equal(t, span.Token{Span: span.Span{Start: 2, End: 4}, Text: "測試"}, tok)

	tok, ok = loc.Locate(buf, 4)
	require.True(t, ok)
	require.Equal(t, span.Token{Span: span.Span{Start: 4, End: 6}, Text: "你好"}, tok)
}

func TestLocate_MixedScriptWord(t *testing.T) {
	buf := buffer.NewDocument("bbb測試", buffer.DefaultSeparators)

	tok, ok := New(segment.NewStatic(wordCutter{"bbb", "測試"})).Locate(buf, 4)
	require.True(t, ok)
	require.Equal(t, "測試", tok.Text)
	require.Equal(t, span.Span{Start: 3, End: 5}, tok.Span)
}

func TestLocate_BeforeDictionaryReady(t *testing.T) {
	buf := buffer.NewDocument("測試你好", buffer.DefaultSeparators)
	notReady := segment.New(nil)

	tok, ok := New(notReady).Locate(buf, 1)
	require.True(t, ok)
	require.Equal(t, "測試你好", tok.Text, "the whole coarse word is one token until the dictionary loads")
}

func TestLocate_CaretAtEndOfWord(t *testing.T) {
	buf := buffer.NewDocument("foo", buffer.DefaultSeparators)

	_, ok := newLocator().Locate(buf, 3)
	require.False(t, ok)
}

func TestLocate_MismatchedPartition(t *testing.T) {
	buf := buffer.NewDocument("hello", buffer.DefaultSeparators)

	tok, ok := New(brokenTokenizer{}).Locate(buf, 3)
	require.False(t, ok)
	require.Equal(t, span.Token{}, tok)
}

func TestExactWord_PartialSelectionDoesNotQualify(t *testing.T) {
	buf := buffer.NewDocument("foobar baz", buffer.DefaultSeparators)

	_, ok := newLocator().ExactWord(buf, span.Span{Start: 3, End: 6})
	require.False(t, ok)

	tok, ok := newLocator().ExactWord(buf, span.Span{Start: 7, End: 10})
	require.True(t, ok)
	require.Equal(t, "baz", tok.Text)

	_, ok = newLocator().ExactWord(buf, span.Span{Start: 7, End: 7})
	require.False(t, ok, "an empty selection is not a selection")
}

func TestCoarseWord_Trims(t *testing.T) {
	buf := buffer.NewDocument("a   b", buffer.DefaultSeparators)

	tok := newLocator().CoarseWord(buf, 2)
	require.Equal(t, span.Span{Start: 1, End: 4}, tok.Span)
	require.Equal(t, "", tok.Text)
}

func TestActiveWord(t *testing.T) {
	buf := buffer.NewDocument("foobar baz  測試", buffer.DefaultSeparators)
	loc := newLocator()

	require.Equal(t, "foobar", loc.ActiveWord(buf, span.Span{Start: 2, End: 2}))
	require.Equal(t, "", loc.ActiveWord(buf, span.Span{Start: 3, End: 6}))
	require.Equal(t, "baz", loc.ActiveWord(buf, span.Span{Start: 7, End: 10}))
	require.Equal(t, "", loc.ActiveWord(buf, span.Span{Start: 11, End: 11}), "whitespace trims to nothing")
	require.Equal(t, "測試", loc.ActiveWord(buf, span.Span{Start: 12, End: 12}))
}

func TestLocate_Idempotent(t *testing.T) {
	alphabet := []rune("ab 測試你好.-\n")
	rapid.Check(t, func(rt *rapid.T) {
		text := string(rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 40).Draw(rt, "text"))
		buf := buffer.NewDocument(text, buffer.DefaultSeparators)
		caret := rapid.IntRange(0, buf.Size()).Draw(rt, "caret")
		loc := newLocator()

		first, firstOK := loc.Locate(buf, caret)
		second, secondOK := loc.Locate(buf, caret)
		require.Equal(rt, firstOK, secondOK)
		require.Equal(rt, first, second)

		if firstOK {
			require.True(rt, first.Contains(caret))
			require.Equal(rt, first.Text, buf.Substr(first.Span))
		}
	})
}
