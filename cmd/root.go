package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/cursorword/internal/buffer"
	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/docstate"
	"github.com/zjrosen/cursorword/internal/log"
	"github.com/zjrosen/cursorword/internal/viewer"
	"github.com/zjrosen/cursorword/internal/watcher"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin, so the
	// OSC 11 reply does not end up in the input stream.
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	statePath string
	debug     bool

	loader *config.Loader
	cfg    config.Config
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "cursorword <file>",
	Short: "Highlight every occurrence of the word under the caret",
	Long: `cursorword opens a file in a terminal viewer and highlights every
occurrence of the word under the caret as it moves. Words can also be pinned
as persistent highlights, each in its own color, and are remembered per file.

Chinese and other unsegmented scripts are split into words with a dictionary,
loaded in the background.`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runViewer,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .cursorword/config.yaml, then ~/.config/cursorword/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "",
		"state database holding persistent words (default: ~/.config/cursorword/state.db)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"write a debug log to debug.log")
}

func initConfig() {
	loader = config.NewLoader(cfgFile)
	v := loader.Viper()
	_ = v.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("state"))
	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	cfg, cfgErr = loader.Load()
	if cfgErr == nil {
		cfgErr = config.Validate(cfg)
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = config.DefaultStoragePath()
	}
}

// loadedConfig returns the config read by initConfig.
func loadedConfig() (config.Config, error) {
	if cfgErr != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", cfgErr)
	}
	return cfg, nil
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	if cfg.Debug {
		cleanup, err := log.InitWithTeaLog("debug.log", "cursorword")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer cleanup()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}
	settings := config.Resolve(cfg)
	doc, err := buffer.Open(path, settings.Separators)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.close()
	eng.segmenter.Start()

	db, err := docstate.OpenDB(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	store := config.NewStore(settings)
	defer store.Close()
	loader.Watch(store)

	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()
	if err := w.Start(); err != nil {
		return err
	}

	model := viewer.New(ctx, viewer.Options{
		Path:      path,
		Document:  doc,
		Locator:   eng.locator,
		Scanner:   eng.scanner,
		Segmenter: eng.segmenter,
		Settings:  store,
		State:     db.Document(path),
		Changes:   w.Broker(),
		Tracer:    eng.tracer(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
