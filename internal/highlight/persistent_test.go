package highlight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/cursorword/internal/buffer"
	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/docstate"
	"github.com/zjrosen/cursorword/internal/span"
)

func newPersistent(decor Decorations) *Persistent {
	return NewPersistent(newLocator(), newScanner(), decor, nil)
}

func storedList(t *testing.T, store docstate.Store) string {
	t.Helper()
	v, err := store.String(context.Background(), ListKey, "<unset>")
	require.NoError(t, err)
	return v
}

func storedSize(t *testing.T, store docstate.Store) int {
	t.Helper()
	n, err := store.Int(context.Background(), SizeKey, -1)
	require.NoError(t, err)
	return n
}

func TestPersistent_ToggleAddsThenRemoves(t *testing.T) {
	ctx := context.Background()
	canvas := NewCanvas()
	p := newPersistent(canvas)
	store := docstate.NewMemory()
	buf := buffer.NewDocument("foo bar foo", buffer.DefaultSeparators)
	settings := config.DefaultSettings()

	list, err := p.Toggle(ctx, buf, caret(1), store, settings)
	require.NoError(t, err)
	require.Equal(t, []string{"foo"}, list.Words())
	require.Equal(t, "foo", storedList(t, store))
	require.Equal(t, 1, storedSize(t, store))

	g, ok := canvas.Group(GroupKey(0))
	require.True(t, ok)
	require.Equal(t, []span.Span{{Start: 0, End: 3}, {Start: 8, End: 11}}, g.Spans)
	require.Equal(t, Style{Scope: settings.PaletteScope(0), Draw: config.DrawUnderline}, g.Style)

	list, err = p.Toggle(ctx, buf, caret(9), store, settings)
	require.NoError(t, err)
	require.Equal(t, 0, list.Len())
	require.Equal(t, "", storedList(t, store))
	require.Equal(t, 0, storedSize(t, store))
	require.Empty(t, canvas.Keys())
}

func TestPersistent_PaletteRotates(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()
	cfg.Persistent.Palette = []string{"red", "blue"}
	settings := config.Resolve(cfg)

	canvas := NewCanvas()
	p := newPersistent(canvas)
	store := docstate.NewMemory()
	buf := buffer.NewDocument("foo bar baz", buffer.DefaultSeparators)

	for _, offset := range []int{0, 4, 8} {
		_, err := p.Toggle(ctx, buf, caret(offset), store, settings)
		require.NoError(t, err)
	}

	require.Equal(t, "foo bar baz", storedList(t, store))
	require.Equal(t, 3, storedSize(t, store))
	for i, scope := range []string{"red", "blue", "red"} {
		g, ok := canvas.Group(GroupKey(i))
		require.True(t, ok)
		require.Equal(t, scope, g.Style.Scope)
		require.Len(t, g.Spans, 1)
	}
}

func TestPersistent_SelectionMustCoverWord(t *testing.T) {
	ctx := context.Background()
	canvas := NewCanvas()
	p := newPersistent(canvas)
	store := docstate.NewMemory()
	buf := buffer.NewDocument("foobar baz foobar", buffer.DefaultSeparators)
	settings := config.DefaultSettings()

	list, err := p.Toggle(ctx, buf, []span.Span{{Start: 3, End: 6}}, store, settings)
	require.NoError(t, err)
	require.Equal(t, 0, list.Len())

	list, err = p.Toggle(ctx, buf, []span.Span{{Start: 3, End: 6}, {Start: 11, End: 17}}, store, settings)
	require.NoError(t, err)
	require.Equal(t, []string{"foobar"}, list.Words(), "the first qualifying selection is used")

	g, _ := canvas.Group(GroupKey(0))
	require.Equal(t, []span.Span{{Start: 0, End: 6}, {Start: 11, End: 17}}, g.Spans)
}

func TestPersistent_ToggleRerendersWhenNothingQualifies(t *testing.T) {
	ctx := context.Background()
	canvas := NewCanvas()
	p := newPersistent(canvas)
	store := docstate.NewMemory()
	require.NoError(t, store.SetString(ctx, ListKey, "bar"))
	buf := buffer.NewDocument("foo  bar", buffer.DefaultSeparators)

	list, err := p.Toggle(ctx, buf, caret(4), store, config.DefaultSettings())
	require.NoError(t, err)
	require.Equal(t, []string{"bar"}, list.Words())

	g, ok := canvas.Group(GroupKey(0))
	require.True(t, ok)
	require.Equal(t, []span.Span{{Start: 5, End: 8}}, g.Spans)
}

func TestPersistent_RenderSkipsShortWords(t *testing.T) {
	ctx := context.Background()
	canvas := NewCanvas()
	p := newPersistent(canvas)
	store := docstate.NewMemory()
	buf := buffer.NewDocument("a barbaz a", buffer.DefaultSeparators)
	settings := config.DefaultSettings()
	settings.MinPersistentLength = 2

	require.NoError(t, p.Render(ctx, buf, NewWordList("a", "barbaz"), store, settings))

	require.Equal(t, []string{GroupKey(0)}, canvas.Keys())
	g, _ := canvas.Group(GroupKey(0))
	require.Equal(t, []span.Span{{Start: 2, End: 8}}, g.Spans)
	require.Equal(t, 1, storedSize(t, store))
	require.Equal(t, "a barbaz", storedList(t, store), "skipped words stay in the list")
}

func TestPersistent_Clear(t *testing.T) {
	ctx := context.Background()
	canvas := NewCanvas()
	p := newPersistent(canvas)
	store := docstate.NewMemory()
	buf := buffer.NewDocument("foo bar", buffer.DefaultSeparators)
	settings := config.DefaultSettings()

	require.NoError(t, p.Render(ctx, buf, NewWordList("foo", "bar"), store, settings))
	require.Len(t, canvas.Keys(), 2)

	require.NoError(t, p.Clear(ctx, store))
	require.Empty(t, canvas.Keys())
	require.Equal(t, "<unset>", storedList(t, store))
	require.Equal(t, 0, storedSize(t, store))

	list, err := p.Load(ctx, store)
	require.NoError(t, err)
	require.Equal(t, 0, list.Len())
}

func TestPersistent_ClearToleratesCorruptCount(t *testing.T) {
	ctx := context.Background()
	store := docstate.NewMemory()
	require.NoError(t, store.SetString(ctx, SizeKey, "many"))
	require.NoError(t, store.SetString(ctx, ListKey, "foo"))

	require.NoError(t, newPersistent(NewCanvas()).Clear(ctx, store))
	require.Equal(t, 0, storedSize(t, store))
	require.Equal(t, "<unset>", storedList(t, store))
}

func TestPersistent_DecorationFailuresAreNotFatal(t *testing.T) {
	ctx := context.Background()
	surface := &brokenSurface{Canvas: NewCanvas()}
	p := newPersistent(surface)
	store := docstate.NewMemory()
	buf := buffer.NewDocument("foo bar foo", buffer.DefaultSeparators)

	list, err := p.Toggle(ctx, buf, caret(0), store, config.DefaultSettings())
	require.NoError(t, err)
	require.Equal(t, "foo", list.String())
	require.Equal(t, 1, storedSize(t, store))

	list, err = p.Toggle(ctx, buf, caret(0), store, config.DefaultSettings())
	require.NoError(t, err)
	require.Equal(t, 0, list.Len())
}

func TestPersistent_LoadAndToggleWithCorruptCount(t *testing.T) {
	ctx := context.Background()
	p := newPersistent(NewCanvas())
	store := docstate.NewMemory()

	list, err := p.Load(ctx, store)
	require.NoError(t, err)
	require.Equal(t, 0, list.Len())

	require.NoError(t, store.SetString(ctx, SizeKey, "x"))
	buf := buffer.NewDocument("foo", buffer.DefaultSeparators)
	_, err = p.Toggle(ctx, buf, caret(0), store, config.DefaultSettings())
	require.NoError(t, err, "an unreadable group count only affects clearing")
}
