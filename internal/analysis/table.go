package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrEmptyTable = errors.New("uploaded file has no header row")
	ErrNoColumn   = errors.New("no text column selected")
)

type UnknownColumnError struct {
	Column    string
	Available []string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("column %q not found (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// Table is an uploaded CSV held in memory: a header row and string cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ReadTable parses CSV with a header row. Ragged rows are padded with empty
// cells and duplicate header names get a ".N" suffix.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{Columns: dedupeColumns(header)}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(t.Rows)+1, err)
		}
		if len(row) < len(t.Columns) {
			row = append(row, make([]string, len(t.Columns)-len(row))...)
		}
		t.Rows = append(t.Rows, row[:len(t.Columns)])
	}
	return t, nil
}

// Column returns every cell of the named column.
func (t *Table) Column(name string) ([]string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNoColumn
	}
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &UnknownColumnError{Column: name, Available: t.Columns}
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

func dedupeColumns(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, name := range header {
		n := seen[name]
		seen[name] = n + 1
		if n == 0 {
			out[i] = name
			continue
		}
		out[i] = fmt.Sprintf("%s.%d", name, n)
	}
	return out
}
