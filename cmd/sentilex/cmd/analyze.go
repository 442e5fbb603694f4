package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spacesedan/sentilex/internal/analysis"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text...>",
	Short: "Analyse one text and append it to the log",
	Long: `Detect the language of the given text and, when it is Indonesian, score its
sentiment against the lexicon. Arguments are joined with spaces.

Examples:
  sentilex analyze "Pelayanan sangat baik dan memuaskan"
  sentilex analyze --format json Driver lambat dan sombong`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "text" && format != "json" {
			return fmt.Errorf("unsupported format %q (use text or json)", format)
		}

		a, err := newApp(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		outcome := a.analyzer.AnalyzeText(cmd.Context(), strings.Join(args, " "))
		if outcome.LogErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to save log: %v\n", outcome.LogErr)
		}
		return writeTextOutcome(cmd.OutOrStdout(), format, outcome)
	},
}

func writeTextOutcome(w io.Writer, format string, outcome analysis.TextOutcome) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome.Result)
	}

	res := outcome.Result
	fmt.Fprintf(w, "Sentiment: %s\n", res.Label)
	fmt.Fprintf(w, "Score: %s\n", res.Score)
	fmt.Fprintf(w, "Language: %s\n", res.Language)
	if res.Reference != nil {
		fmt.Fprintf(w, "English polarity (VADER): %s (%.3f)\n", res.Reference.Label, res.Reference.Compound)
	}
	return nil
}

func init() {
	analyzeCmd.Flags().String("format", "text", "output format (text, json)")
}
