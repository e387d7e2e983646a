package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/cursorword/internal/buffer"
	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/docstate"
	"github.com/zjrosen/cursorword/internal/highlight"
	"github.com/zjrosen/cursorword/internal/span"
)

var persistEnd string

var persistCmd = &cobra.Command{
	Use:   "persist",
	Short: "Manage a file's persistent words",
	Long: `Persistent words stay highlighted in the viewer, each in its own color,
and are remembered per file in the state database.`,
}

var persistToggleCmd = &cobra.Command{
	Use:   "toggle <file> <position>",
	Short: "Add or remove the word at a position",
	Long: `Add the word at a position to the file's persistent words, or remove it
if it is already there. With --end, the selection must cover a whole word.

Examples:
  cursorword persist toggle notes.txt 2:5
  cursorword persist toggle notes.txt 2:1 --end 2:7`,
	Args: cobra.ExactArgs(2),
	RunE: runPersistToggle,
}

var persistListCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List a file's persistent words, or every file with some",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPersistList,
}

var persistClearCmd = &cobra.Command{
	Use:   "clear <file>",
	Short: "Remove every persistent word of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersistClear,
}

func init() {
	persistToggleCmd.Flags().StringVar(&persistEnd, "end", "", "end position of a selection")
	persistCmd.AddCommand(persistToggleCmd, persistListCmd, persistClearCmd)
	rootCmd.AddCommand(persistCmd)
}

func openState(cfg config.Config) (*docstate.DB, error) {
	return docstate.OpenDB(cfg.Storage.Path)
}

func documentKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

func runPersistToggle(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	settings := config.Resolve(cfg)
	key, err := documentKey(args[0])
	if err != nil {
		return err
	}
	doc, err := buffer.Open(key, settings.Separators)
	if err != nil {
		return err
	}
	sel, err := parseSelection(doc, args[1], persistEnd)
	if err != nil {
		return err
	}

	db, err := openState(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.close()
	eng.waitForDictionary(cmd.Context())

	p := highlight.NewPersistent(eng.locator, eng.scanner, highlight.NewCanvas(), eng.tracer())
	list, err := p.Toggle(cmd.Context(), doc, []span.Span{sel}, db.Document(key), settings)
	if err != nil {
		return err
	}
	printWords(cmd, list)
	return nil
}

func runPersistList(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	db, err := openState(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if len(args) == 0 {
		docs, err := db.Documents(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range docs {
			list, err := loadWords(cmd, db, d)
			if err != nil {
				return err
			}
			if list.Len() > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", d, list)
			}
		}
		return nil
	}

	key, err := documentKey(args[0])
	if err != nil {
		return err
	}
	list, err := loadWords(cmd, db, key)
	if err != nil {
		return err
	}
	printWords(cmd, list)
	return nil
}

func runPersistClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	key, err := documentKey(args[0])
	if err != nil {
		return err
	}
	db, err := openState(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	p := highlight.NewPersistent(nil, nil, highlight.NewCanvas(), nil)
	if err := p.Clear(cmd.Context(), db.Document(key)); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "cleared")
	return nil
}

func loadWords(cmd *cobra.Command, db *docstate.DB, key string) (highlight.WordList, error) {
	p := highlight.NewPersistent(nil, nil, highlight.NewCanvas(), nil)
	return p.Load(cmd.Context(), db.Document(key))
}

func printWords(cmd *cobra.Command, list highlight.WordList) {
	out := cmd.OutOrStdout()
	if list.Len() == 0 {
		fmt.Fprintln(out, "(no persistent words)")
		return
	}
	for _, w := range list.Words() {
		fmt.Fprintln(out, w)
	}
}
