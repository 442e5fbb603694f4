package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spacesedan/sentilex/config"
	"github.com/spacesedan/sentilex/internal/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		LogLevel: "error",
		Analysis: config.AnalysisConfig{
			LogFile:   filepath.Join(t.TempDir(), "log.csv"),
			Languages: []string{"id", "en"},
		},
	}
}

func readLog(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestNewApp_MissingLexiconIsFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.LexiconPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := newApp(context.Background(), cfg)

	var missing *monitoring.MissingCapabilityError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, capLexicon, missing.Name)
}

func TestNewApp_InvalidLanguageIsFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.Languages = []string{"id", "zz"}

	_, err := newApp(context.Background(), cfg)

	var missing *monitoring.MissingCapabilityError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, capDetector, missing.Name)
}

func TestNewApp_Ready(t *testing.T) {
	cfg := testConfig(t)

	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.status.Healthy())
	assert.True(t, a.chartsEnabled())
	assert.Nil(t, a.valkey)
	require.Len(t, a.monitored, 1)
	assert.Equal(t, capLog, a.monitored[0].Name)
}

func TestAnalyzeCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ANALYSIS_LANGUAGES", "id,en")
	logFile := filepath.Join(t.TempDir(), "log.csv")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"analyze", "--log-level", "error", "--log-file", logFile, "Pelayanan sangat baik dan memuaskan"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Sentiment: Positive")
	assert.Contains(t, out.String(), "Score: 2")
	assert.Contains(t, out.String(), "Language: id")

	rows := readLog(t, logFile)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Pelayanan sangat baik dan memuaskan", "Positive", "2", "id"}, rows[0][1:])
}

func TestBatchCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ANALYSIS_LANGUAGES", "id,en")
	dir := t.TempDir()
	logFile := filepath.Join(dir, "log.csv")
	input := filepath.Join(dir, "reviews.csv")
	chartFile := filepath.Join(dir, "distribution.svg")
	content := "review\nbagus\njelek\nbiasa saja\n"
	require.NoError(t, os.WriteFile(input, []byte(content), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"batch", "--log-file", logFile, "--file", input, "--column", "review", "--chart", chartFile})
	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"review,sentiment,sentiment_score",
		"bagus,Positive,1",
		"jelek,Negative,1",
		"biasa saja,Neutral,0",
	}, lines)

	rows := readLog(t, logFile)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, "id", row[4])
	}

	svg, err := os.ReadFile(chartFile)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	unchanged, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, content, string(unchanged))
}

func TestBatchCommand_StdoutIsOnlyCSV(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ANALYSIS_LANGUAGES", "id,en")
	dir := t.TempDir()
	logFile := filepath.Join(dir, "log.csv")
	input := filepath.Join(dir, "reviews.csv")
	require.NoError(t, os.WriteFile(input, []byte("review\nbagus\njelek\n"), 0o644))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = stdout })

	rootCmd.SetOut(nil)
	rootCmd.SetArgs([]string{"batch", "--log-level", "debug", "--log-file", logFile, "--file", input, "--column", "review", "--chart", filepath.Join(dir, "chart.svg")})
	execErr := rootCmd.Execute()
	require.NoError(t, w.Close())
	os.Stdout = stdout
	captured, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, execErr)

	rows, err := csv.NewReader(bytes.NewReader(captured)).ReadAll()
	require.NoError(t, err, string(captured))
	assert.Equal(t, [][]string{
		{"review", "sentiment", "sentiment_score"},
		{"bagus", "Positive", "1"},
		{"jelek", "Negative", "1"},
	}, rows)
}

func TestLogOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, logOutput(serveCmd))
	assert.Equal(t, os.Stderr, logOutput(batchCmd))
	assert.Equal(t, os.Stderr, logOutput(analyzeCmd))
}

func TestWriteTextOutcome_UnknownLanguage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.ReferenceScoring = true
	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	outcome := a.analyzer.AnalyzeText(context.Background(), "The driver was friendly and the ride was great, thank you!")

	var out bytes.Buffer
	require.NoError(t, writeTextOutcome(&out, "text", outcome))
	assert.Contains(t, out.String(), "Sentiment: Unknown")
	assert.Contains(t, out.String(), "Score: N/A")
	assert.Contains(t, out.String(), "Language: en")
	assert.Contains(t, out.String(), "English polarity (VADER): positive")
}
