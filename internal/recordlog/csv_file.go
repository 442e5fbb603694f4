package recordlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/spacesedan/sentilex/internal/models"
)

const DefaultLogFile = "user_analysis_log.csv"

// CSVFile appends records to a header-less CSV file, creating it if needed.
// Appends are serialized so concurrent requests never interleave rows.
type CSVFile struct {
	path string
	mu   sync.Mutex
}

func NewCSVFile(path string) *CSVFile {
	if path == "" {
		path = DefaultLogFile
	}
	return &CSVFile{path: path}
}

func (c *CSVFile) Name() string {
	return "csv"
}

func (c *CSVFile) Path() string {
	return c.path
}

func (c *CSVFile) Write(ctx context.Context, records []models.LogRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.path, err)
	}

	w := csv.NewWriter(f)
	for _, rec := range records {
		if err := w.Write(rec.Row()); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", c.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", c.path, err)
	}

	return f.Close()
}

// Probe checks that the log file can be opened for appending.
func (c *CSVFile) Probe(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
