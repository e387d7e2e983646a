// Package config provides configuration types, defaults and validation for
// cursorword.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/cursorword/internal/log"
)

// DefaultSeparators matches the host editor's default word_separators.
const DefaultSeparators = "./\\()\"'-:,.;<>~!@#$%^&*|+=[]{}`~?"

// Config holds all configuration options for cursorword.
type Config struct {
	Highlight  HighlightConfig  `mapstructure:"highlight"`
	Search     SearchConfig     `mapstructure:"search"`
	Persistent PersistentConfig `mapstructure:"persistent"`
	Segment    SegmentConfig    `mapstructure:"segment"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Debug      bool             `mapstructure:"debug"`
}

// HighlightConfig holds the options the host editor exposes for live and
// persistent highlighting.
type HighlightConfig struct {
	Enabled                   bool   `mapstructure:"enabled"`
	CaseSensitive             bool   `mapstructure:"case_sensitive"`
	WholeWord                 bool   `mapstructure:"whole_word"`
	DrawOutlined              bool   `mapstructure:"draw_outlined"` // false fills the region instead
	ColorScopeName            string `mapstructure:"color_scope_name"`
	MarkOccurrencesOnGutter   bool   `mapstructure:"mark_occurrences_on_gutter"`
	IconTypeOnGutter          string `mapstructure:"icon_type_on_gutter"` // only used when gutter marking is on
	MinActiveLength           int    `mapstructure:"min_active_length"`
	MinActiveLengthPersistent int    `mapstructure:"min_active_length_persistent"`
	WordSeparators            string `mapstructure:"word_separators"`
}

// SearchConfig bounds the cost of a scan on large documents.
type SearchConfig struct {
	// SizeThreshold is the document size, in characters, from which scans
	// are restricted to a window around the viewport.
	// Default: 4194304
	SizeThreshold int `mapstructure:"size_threshold"`

	// WindowRadius is how far, in characters, the window extends on each
	// side of the viewport.
	// Default: 20000
	WindowRadius int `mapstructure:"window_radius"`
}

// PersistentConfig holds persistent highlight options.
type PersistentConfig struct {
	// Palette is the list of color scopes persistent words cycle through.
	Palette []string `mapstructure:"palette"`
}

// SegmentConfig configures the dictionary segmenter.
type SegmentConfig struct {
	// Dictionary is a path to a custom dictionary file. Empty uses the
	// embedded dictionary.
	Dictionary string `mapstructure:"dictionary"`
}

// StorageConfig holds document state storage options.
type StorageConfig struct {
	// Path is the sqlite database persistent word lists are kept in.
	// Default: ~/.config/cursorword/state.db
	Path string `mapstructure:"path"`
}

// TracingConfig holds tracing configuration for highlight passes.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/cursorword/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultPalette is the set of scopes persistent words rotate through.
func DefaultPalette() []string {
	return []string{
		"entity.name.class",
		"support.function",
		"variable.parameter",
		"invalid.deprecated",
		"invalid",
		"string",
	}
}

// DefaultConfigDir returns ~/.config/cursorword, or "" if the home
// directory cannot be determined.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Warn(log.CatConfig, "Cannot determine home directory", "error", err)
		return ""
	}
	return filepath.Join(home, ".config", "cursorword")
}

// DefaultStoragePath returns the default sqlite state database path.
func DefaultStoragePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "state.db")
}

// DefaultTracesFilePath returns the default path for trace files.
func DefaultTracesFilePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Highlight: HighlightConfig{
			Enabled:                   true,
			CaseSensitive:             true,
			WholeWord:                 true,
			DrawOutlined:              true,
			ColorScopeName:            "comment",
			MarkOccurrencesOnGutter:   false,
			IconTypeOnGutter:          "dot",
			MinActiveLength:           2,
			MinActiveLengthPersistent: 1,
			WordSeparators:            DefaultSeparators,
		},
		Search: SearchConfig{
			SizeThreshold: 4194304,
			WindowRadius:  20000,
		},
		Persistent: PersistentConfig{
			Palette: DefaultPalette(),
		},
		Storage: StorageConfig{
			Path: DefaultStoragePath(),
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// ValidateHighlight checks the highlight section for values no host setting
// could produce.
func ValidateHighlight(h HighlightConfig) error {
	if h.MinActiveLength < 0 {
		return fmt.Errorf("highlight.min_active_length must be >= 0, got %d", h.MinActiveLength)
	}
	if h.MinActiveLengthPersistent < 0 {
		return fmt.Errorf("highlight.min_active_length_persistent must be >= 0, got %d", h.MinActiveLengthPersistent)
	}
	if h.MarkOccurrencesOnGutter && h.IconTypeOnGutter == "" {
		return fmt.Errorf("highlight.icon_type_on_gutter is required when mark_occurrences_on_gutter is enabled")
	}
	return nil
}

// ValidateSearch checks the scan bounds.
func ValidateSearch(s SearchConfig) error {
	if s.SizeThreshold <= 0 {
		return fmt.Errorf("search.size_threshold must be > 0, got %d", s.SizeThreshold)
	}
	if s.WindowRadius < 0 {
		return fmt.Errorf("search.window_radius must be >= 0, got %d", s.WindowRadius)
	}
	return nil
}

// ValidatePersistent checks the persistent palette.
func ValidatePersistent(p PersistentConfig) error {
	for i, scope := range p.Palette {
		if scope == "" {
			return fmt.Errorf("persistent.palette[%d] is empty", i)
		}
	}
	return nil
}

// ValidateTracing validates tracing configuration.
func ValidateTracing(tracing TracingConfig) error {
	if !tracing.Enabled {
		return nil
	}

	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
	}

	if tracing.SampleRate < 0 || tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %f", tracing.SampleRate)
	}

	if tracing.Exporter == "file" && tracing.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}
	if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// Validate runs every section validator.
func Validate(c Config) error {
	if err := ValidateHighlight(c.Highlight); err != nil {
		return err
	}
	if err := ValidateSearch(c.Search); err != nil {
		return err
	}
	if err := ValidatePersistent(c.Persistent); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	return nil
}

// DefaultConfigTemplate returns the default config file contents with
// comments describing each option.
func DefaultConfigTemplate() string {
	return `# cursorword configuration

# Live highlighting of the word under the caret
highlight:
  enabled: true
  case_sensitive: true
  whole_word: true
  # true draws an outline around occurrences, false fills them
  draw_outlined: true
  color_scope_name: comment
  mark_occurrences_on_gutter: false
  icon_type_on_gutter: dot
  # Words shorter than this are not highlighted live
  min_active_length: 2
  # Words shorter than this cannot be toggled persistent
  min_active_length_persistent: 1
  word_separators: "./\\()\"'-:,.;<>~!@#$%^&*|+=[]{}` + "`" + `~?"

# Large documents are only scanned around the visible part
search:
  size_threshold: 4194304
  window_radius: 20000

# Persistent highlights cycle through these scopes
persistent:
  palette:
    - entity.name.class
    - support.function
    - variable.parameter
    - invalid.deprecated
    - invalid
    - string

segment:
  # Custom dictionary file; empty uses the embedded dictionary
  dictionary: ""

# sqlite database holding persistent word lists per document
# storage:
#   path: ~/.config/cursorword/state.db

tracing:
  enabled: false
  # Options: none, file, stdout, otlp
  exporter: file
  # file_path: ~/.config/cursorword/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file with default settings.
// Creates parent directories if needed.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Wrote default config", "path", configPath)
	return nil
}
