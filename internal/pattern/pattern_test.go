package pattern

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/cursorword/internal/span"
)

const defaultSeparators = "./\\()\"'-:,.;<>~!@#$%^&*|+=[]{}`~?"

func mustCompile(t *testing.T, source string, mode MatchMode) *Pattern {
	t.Helper()
	p, err := Compile(source, mode)
	require.NoError(t, err, "pattern %q should compile", source)
	return p
}

func TestBuild_EmptyWord(t *testing.T) {
	require.Equal(t, "", Build("", Options{WholeWord: true}))
	require.Equal(t, "", Build("", Options{}))
}

func TestBuild_LiteralOnly(t *testing.T) {
	require.Equal(t, `a\.b`, Build("a.b", Options{}))
	require.Equal(t, "foo", Build("foo", Options{Separators: defaultSeparators}))
}

func TestBuild_WholeWordAssertions(t *testing.T) {
	got := Build("foo", Options{WholeWord: true, Separators: "-."})

	require.Equal(t, `(?<=\A|[\s\-\.]|[^\u0001-\u007f])foo(?=\z|[\s\-\.]|[^\u0001-\u007f])`, got)
}

func TestBuild_UnsegmentedEdgesDropAssertions(t *testing.T) {
	opts := Options{WholeWord: true, Separators: "-"}

	require.Equal(t, "測試", Build("測試", opts))

	mixedRight := Build("bbb測試", opts)
	require.True(t, strings.HasPrefix(mixedRight, `(?<=`))
	require.True(t, strings.HasSuffix(mixedRight, "測試"))

	mixedLeft := Build("測試bbb", opts)
	require.True(t, strings.HasPrefix(mixedLeft, "測試"))
	require.True(t, strings.HasSuffix(mixedLeft, `])`))
}

func TestEscapeClass(t *testing.T) {
	require.Equal(t, `\-\]\\`, escapeClass("-]\\"))
	require.Equal(t, "_a", escapeClass("_a"), "word characters stay bare")
	require.Equal(t, "", escapeClass(" \t\n"), "whitespace is covered by \\s")
	require.Equal(t, `\u0001`, escapeClass("\x01"))
	require.Equal(t, "、", escapeClass("、"))
}

func TestBuild_DefaultSeparatorsCompile(t *testing.T) {
	mustCompile(t, Build("foo", Options{WholeWord: true, Separators: defaultSeparators}), CaseSensitive)
	mustCompile(t, Build("a+b(c)", Options{WholeWord: true, Separators: defaultSeparators}), IgnoreCase)
}

func TestIsUnsegmented(t *testing.T) {
	require.True(t, IsUnsegmented('一'))
	require.True(t, IsUnsegmented('測'))
	require.False(t, IsUnsegmented('a'))
	require.False(t, IsUnsegmented('ア'))
	require.False(t, IsUnsegmented('。'))
}

func TestFindAll_WholeWordScenario(t *testing.T) {
	p := mustCompile(t, Build("foo", Options{WholeWord: true, Separators: defaultSeparators}), CaseSensitive)

	got := p.FindAll([]rune("foo bar foo"))

	require.Equal(t, []span.Span{{Start: 0, End: 3}, {Start: 8, End: 11}}, got)
}

func TestFindAll_WholeWordRejectsEmbedded(t *testing.T) {
	p := mustCompile(t, Build("foo", Options{WholeWord: true, Separators: defaultSeparators}), CaseSensitive)

	require.Equal(t, []span.Span{{Start: 7, End: 10}}, p.FindAll([]rune("foobar foo")))
	require.Equal(t, []span.Span{{Start: 0, End: 3}}, p.FindAll([]rune("foo-bar")))
	require.Empty(t, p.FindAll([]rune("foo_bar")))
}

func TestFindAll_NonASCIINeighboursAreBoundaries(t *testing.T) {
	p := mustCompile(t, Build("foo", Options{WholeWord: true, Separators: defaultSeparators}), CaseSensitive)

	require.Equal(t, []span.Span{{Start: 2, End: 5}}, p.FindAll([]rune("測試foo測試")))
}

func TestFindAll_IgnoreCase(t *testing.T) {
	p := mustCompile(t, Build("foo", Options{WholeWord: true, Separators: defaultSeparators}), IgnoreCase)

	require.Len(t, p.FindAll([]rune("Foo foo FOO")), 3)
}

func TestFindAll_NotWholeWordMatchesInside(t *testing.T) {
	p := mustCompile(t, Build("foo", Options{}), CaseSensitive)

	require.Equal(t, []span.Span{{Start: 0, End: 3}, {Start: 8, End: 11}}, p.FindAll([]rune("foobar xfoo")))
}

func TestFindNext_LookBehindSeesEarlierText(t *testing.T) {
	p := mustCompile(t, Build("foo", Options{WholeWord: true, Separators: defaultSeparators}), CaseSensitive)
	text := []rune("xfoo foo")

	got, ok := p.FindNext(text, 1)
	require.True(t, ok)
	require.Equal(t, span.Span{Start: 5, End: 8}, got)

	_, ok = p.FindNext(text, 8)
	require.False(t, ok)

	_, ok = p.FindNext(text, 100)
	require.False(t, ok)
}

func TestCompiler_CachesCompiledPatterns(t *testing.T) {
	c := NewCompiler()
	ctx := context.Background()

	a, err := c.Compile(ctx, "foo", CaseSensitive)
	require.NoError(t, err)
	b, err := c.Compile(ctx, "foo", CaseSensitive)
	require.NoError(t, err)
	require.Same(t, a, b)

	other, err := c.Compile(ctx, "foo", IgnoreCase)
	require.NoError(t, err)
	require.NotSame(t, a, other)
	require.Equal(t, IgnoreCase, other.Mode())
	require.Equal(t, int64(1), c.Stats().Hits)
	require.Equal(t, int64(2), c.Stats().Misses)
}

func TestCompiler_InvalidPattern(t *testing.T) {
	_, err := NewCompiler().Compile(context.Background(), "(", CaseSensitive)
	require.Error(t, err)
}

func TestWholeWordPattern_MatchesSpaceDelimitedWordOnce(t *testing.T) {
	alphabet := []rune("abcXYZ019_.-:(測試你好")
	rapid.Check(t, func(rt *rapid.T) {
		word := string(rapid.SliceOfN(rapid.SampledFrom(alphabet), 1, 8).Draw(rt, "word"))
		p, err := Compile(Build(word, Options{WholeWord: true, Separators: defaultSeparators}), CaseSensitive)
		require.NoError(rt, err)

		got := p.FindAll([]rune(" " + word + " "))
		require.Equal(rt, []span.Span{{Start: 1, End: 1 + len([]rune(word))}}, got)
	})
}

func TestWholeWordPattern_UnsegmentedHasNoAssertions(t *testing.T) {
	ideographs := []rune("一二三測試你好嗎就在今天進行了")
	rapid.Check(t, func(rt *rapid.T) {
		word := string(rapid.SliceOfN(rapid.SampledFrom(ideographs), 1, 6).Draw(rt, "word"))

		got := Build(word, Options{WholeWord: true, Separators: defaultSeparators})
		require.NotContains(rt, got, "(?<=")
		require.NotContains(rt, got, "(?=")
		require.Equal(rt, word, got)
	})
}
