package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spacesedan/sentilex/internal/analysis"
	"github.com/spacesedan/sentilex/internal/chart"
	"github.com/spacesedan/sentilex/internal/models"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyse one column of a CSV file",
	Long: `Score every cell of a CSV column against the lexicon. Rows are assumed to be
Indonesian and are appended to the log with language "id". The input file is
never modified.

Examples:
  sentilex batch --file reviews.csv --column review
  sentilex batch --file reviews.csv --column review --format json
  sentilex batch --file reviews.csv --column review --chart distribution.svg`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		column, _ := cmd.Flags().GetString("column")
		format, _ := cmd.Flags().GetString("format")
		chartPath, _ := cmd.Flags().GetString("chart")
		if format != "csv" && format != "json" {
			return fmt.Errorf("unsupported format %q (use csv or json)", format)
		}

		table, err := readTableFile(file)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		outcome, err := a.analyzer.AnalyzeBatch(cmd.Context(), table, column)
		if err != nil {
			return err
		}
		if outcome.LogErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to save log: %v\n", outcome.LogErr)
		}

		if chartPath != "" && len(outcome.Counts) > 0 {
			svg, err := chart.Distribution(outcome.Counts)
			if err != nil {
				return fmt.Errorf("render chart: %w", err)
			}
			if err := os.WriteFile(chartPath, svg, 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
		}

		return writeBatchOutcome(cmd.OutOrStdout(), format, outcome)
	},
}

func readTableFile(path string) (*analysis.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	table, err := analysis.ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}

func writeBatchOutcome(w io.Writer, format string, outcome *analysis.BatchOutcome) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Column string              `json:"column"`
			Rows   []models.BatchRow   `json:"rows"`
			Counts []models.LabelCount `json:"counts"`
		}{outcome.Column, outcome.Rows, outcome.Counts})
	}

	out := csv.NewWriter(w)
	if err := out.Write([]string{outcome.Column, "sentiment", "sentiment_score"}); err != nil {
		return err
	}
	for _, row := range outcome.Rows {
		if err := out.Write([]string{row.Text, row.Sentiment.String(), row.SentimentScore.String()}); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

func init() {
	batchCmd.Flags().String("file", "", "CSV file to analyse")
	batchCmd.Flags().String("column", "", "name of the text column")
	batchCmd.Flags().String("format", "csv", "output format (csv, json)")
	batchCmd.Flags().String("chart", "", "write the label distribution chart to this SVG file")
	_ = batchCmd.MarkFlagRequired("file")
	_ = batchCmd.MarkFlagRequired("column")
}
