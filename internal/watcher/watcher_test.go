package watcher_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/cursorword/internal/pubsub"
	"github.com/zjrosen/cursorword/internal/watcher"
)

func startWatcher(t *testing.T, path string) (*watcher.Watcher, <-chan pubsub.Event[string]) {
	t.Helper()
	w, err := watcher.New(watcher.Config{Path: path, Debounce: 50 * time.Millisecond})
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	events := w.Subscribe(ctx)
	require.NoError(t, w.Start(), "failed to start watcher")
	return w, events
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo"), 0644))

	_, events := startWatcher(t, path)

	// Rapid writes coalesce into a single notification.
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("foo %d", i)), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ev := <-events:
		assert.Equal(t, pubsub.ChangedEvent, ev.Type)
		assert.Equal(t, path, ev.Payload)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-events:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("initial"), 0644))

	_, events := startWatcher(t, path)

	require.NoError(t, os.WriteFile(other, []byte("other content"), 0644))

	select {
	case <-events:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_SeesReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo"), 0644))

	_, events := startWatcher(t, path)

	tmp := filepath.Join(dir, ".notes.txt.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("bar"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case ev := <-events:
		assert.Equal(t, path, ev.Payload)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for replaced file")
	}
}

func TestWatcher_StopClosesSubscriptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo"), 0644))

	w, events := startWatcher(t, path)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop())
		assert.NoError(t, w.Stop(), "second Stop is a no-op")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}

	_, ok := <-events
	assert.False(t, ok, "subscription closed on stop")
}

func TestWatcher_StartFailsForMissingDirectory(t *testing.T) {
	w, err := watcher.New(watcher.DefaultConfig(filepath.Join(t.TempDir(), "missing", "notes.txt")))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	require.Error(t, w.Start())
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/test/notes.txt")

	assert.Equal(t, "/test/notes.txt", cfg.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
}
