package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	keys := Keys()

	require.Contains(t, keys, "highlight.whole_word")
	require.Contains(t, keys, "search.window_radius")
	require.Contains(t, keys, "debug")
	require.IsIncreasing(t, keys)
}

func TestSetValue_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`# top comment
highlight:
  # keep me
  whole_word: true
  min_active_length: 2
`), 0o600))

	require.NoError(t, SetValue(path, "highlight.whole_word", "false"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.Contains(t, out, "# top comment")
	require.Contains(t, out, "# keep me")
	require.Contains(t, out, "whole_word: false")
	require.Contains(t, out, "min_active_length: 2")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.False(t, cfg.Highlight.WholeWord)
}

func TestSetValue_CreatesFileAndSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	require.NoError(t, SetValue(path, "search.window_radius", "500"))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.Equal(t, 500, cfg.Search.WindowRadius)
}

func TestSetValue_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.ErrorContains(t, SetValue(path, "highlight.nope", "1"), "unknown config key")
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "nothing is written for an unknown key")
}

func TestSetValue_RejectsNonMappingRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))

	require.Error(t, SetValue(path, "debug", "true"))
}
