package cmd

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/cursorword/internal/buffer"
	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/highlight"
	"github.com/zjrosen/cursorword/internal/span"
)

var (
	findEnd string
	findAll bool
)

var findCmd = &cobra.Command{
	Use:   "find <file> <position>",
	Short: "Print the occurrences of the word at a position",
	Long: `Locate the word at a position in a file the same way the viewer does
and print every occurrence the live highlighter would draw.

A position is either a rune offset or a 1-based line:column pair.

Examples:
  cursorword find notes.txt 120
  cursorword find notes.txt 3:14
  cursorword find notes.txt 3:9 --end 3:14   # a selection
  cursorword find big.log 0 --all            # ignore the scan window`,
	Args: cobra.ExactArgs(2),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringVar(&findEnd, "end", "", "end position of a selection")
	findCmd.Flags().BoolVar(&findAll, "all", false, "scan the whole file regardless of its size")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	settings := config.Resolve(cfg)
	if findAll {
		settings.SizeThreshold = math.MaxInt
	}

	doc, err := buffer.Open(args[0], settings.Separators)
	if err != nil {
		return err
	}
	sel, err := parseSelection(doc, args[1], findEnd)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.close()
	eng.waitForDictionary(cmd.Context())

	canvas := highlight.NewCanvas()
	live := highlight.NewLive(eng.locator, eng.scanner, canvas, eng.tracer())
	if live.Handle(cmd.Context(), doc, []span.Span{sel}, highlight.KindCaretMove, settings) == highlight.StateIdle {
		fmt.Fprintf(cmd.OutOrStdout(), "no word at %s\n", args[1])
		return nil
	}

	out := cmd.OutOrStdout()
	status, _ := canvas.Status(highlight.LiveKey)
	fmt.Fprintln(out, status)
	printSpans(out, doc, live.Occurrences())
	return nil
}

func printSpans(w io.Writer, doc *buffer.Document, spans []span.Span) {
	for _, s := range spans {
		sl, sc := doc.Position(s.Start)
		el, ec := doc.Position(s.End)
		fmt.Fprintf(w, "%d:%d-%d:%d\n", sl+1, sc+1, el+1, ec+1)
	}
}

// parseSelection reads a caret position and an optional selection end.
func parseSelection(doc *buffer.Document, start, end string) (span.Span, error) {
	a, err := parsePosition(doc, start)
	if err != nil {
		return span.Span{}, err
	}
	if end == "" {
		return span.Span{Start: a, End: a}, nil
	}
	b, err := parsePosition(doc, end)
	if err != nil {
		return span.Span{}, err
	}
	return span.New(a, b), nil
}

// parsePosition accepts a rune offset or a 1-based line:column pair.
func parsePosition(doc *buffer.Document, s string) (int, error) {
	if line, col, ok := strings.Cut(s, ":"); ok {
		l, err := strconv.Atoi(line)
		if err != nil || l < 1 {
			return 0, fmt.Errorf("invalid line in %q", s)
		}
		c, err := strconv.Atoi(col)
		if err != nil || c < 1 {
			return 0, fmt.Errorf("invalid column in %q", s)
		}
		if l > doc.LineCount() {
			return 0, fmt.Errorf("line %d is past the end of the file (%d lines)", l, doc.LineCount())
		}
		return doc.Offset(l-1, c-1), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: want an offset or line:column", s)
	}
	if n < 0 || n > doc.Size() {
		return 0, fmt.Errorf("offset %d is outside the file (size %d)", n, doc.Size())
	}
	return n, nil
}
