package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/zjrosen/cursorword/internal/log"
)

// LocalConfigPath is the project-level config file, checked before the user
// config.
const LocalConfigPath = ".cursorword/config.yaml"

// Loader reads the config file through viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader for cfgFile. With an empty cfgFile the lookup
// order is .cursorword/config.yaml, then ~/.config/cursorword/config.yaml.
// Environment variables prefixed CURSORWORD_ override file values, with
// dots in keys replaced by underscores.
func NewLoader(cfgFile string) *Loader {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("CURSORWORD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case cfgFile != "":
		v.SetConfigFile(cfgFile)
	case fileExists(LocalConfigPath):
		v.SetConfigFile(LocalConfigPath)
	default:
		if dir := DefaultConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	return &Loader{v: v}
}

// SetDefaults registers every default with v so that keys missing from the
// file still decode.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("highlight.enabled", d.Highlight.Enabled)
	v.SetDefault("highlight.case_sensitive", d.Highlight.CaseSensitive)
	v.SetDefault("highlight.whole_word", d.Highlight.WholeWord)
	v.SetDefault("highlight.draw_outlined", d.Highlight.DrawOutlined)
	v.SetDefault("highlight.color_scope_name", d.Highlight.ColorScopeName)
	v.SetDefault("highlight.mark_occurrences_on_gutter", d.Highlight.MarkOccurrencesOnGutter)
	v.SetDefault("highlight.icon_type_on_gutter", d.Highlight.IconTypeOnGutter)
	v.SetDefault("highlight.min_active_length", d.Highlight.MinActiveLength)
	v.SetDefault("highlight.min_active_length_persistent", d.Highlight.MinActiveLengthPersistent)
	v.SetDefault("highlight.word_separators", d.Highlight.WordSeparators)
	v.SetDefault("search.size_threshold", d.Search.SizeThreshold)
	v.SetDefault("search.window_radius", d.Search.WindowRadius)
	v.SetDefault("persistent.palette", d.Persistent.Palette)
	v.SetDefault("segment.dictionary", d.Segment.Dictionary)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("debug", d.Debug)
}

// Load reads the config file and decodes it. A missing file is not an
// error; defaults are used.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "No config file, using defaults")
	}
	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Path returns the config file in use, or "" when none was found.
func (l *Loader) Path() string {
	return l.v.ConfigFileUsed()
}

// Viper exposes the underlying viper instance, for binding CLI flags.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Watch re-reads the config whenever the file changes and replaces the
// store's snapshot. Invalid configs are logged and ignored, keeping the
// previous snapshot. It has no effect when no config file is in use.
func (l *Loader) Watch(store *Store) {
	if l.Path() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			log.ErrorErr(log.CatConfig, "Config reload failed", err, "path", e.Name)
			return
		}
		if err := Validate(cfg); err != nil {
			log.ErrorErr(log.CatConfig, "Reloaded config is invalid", err, "path", e.Name)
			return
		}
		store.Replace(Resolve(cfg))
		log.Info(log.CatConfig, "Config reloaded", "path", e.Name, "op", e.Op.String())
	})
	l.v.WatchConfig()
	log.Debug(log.CatConfig, "Watching config", "path", filepath.Clean(l.Path()))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
