package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var segmentCmd = &cobra.Command{
	Use:   "segment <text>...",
	Short: "Print the dictionary words of a text",
	Long: `Split text into words with the segmentation dictionary, one word per
line. Useful for checking how a Chinese phrase will be split before relying
on it for highlighting.

Example:
  cursorword segment 就在今天测试你好`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.close()
	eng.waitForDictionary(cmd.Context())
	if err := eng.segmenter.Err(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for tok := range eng.segmenter.Segment(strings.Join(args, " ")) {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		fmt.Fprintln(out, tok)
	}
	return nil
}
