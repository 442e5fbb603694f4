package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spacesedan/sentilex/internal/analysis"
)

var (
	ErrNoFile = errors.New("no CSV file provided")
	ErrNotCSV = errors.New("only .csv files can be analysed")
)

type upload struct {
	FileName string
	Raw      []byte
	Table    *analysis.Table
}

// readUpload reads the multipart "file" field into memory and parses it as
// CSV. The uploaded bytes are kept so the page can post them back unchanged.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("file is larger than %d MB", s.maxUploadMB)
		}
		return nil, fmt.Errorf("failed to parse form data: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, ErrNoFile
	}
	defer func() { _ = file.Close() }()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		return nil, ErrNotCSV
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	table, err := analysis.ReadTable(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	return &upload{FileName: header.Filename, Raw: raw, Table: table}, nil
}

func newPreview(fileName, raw string, table *analysis.Table, selected string) *previewView {
	if selected == "" && len(table.Columns) > 0 {
		selected = table.Columns[0]
	}
	rows := table.Rows
	truncated := false
	if len(rows) > previewRowLimit {
		rows = rows[:previewRowLimit]
		truncated = true
	}
	return &previewView{
		FileName:  fileName,
		Columns:   table.Columns,
		Rows:      rows,
		Total:     len(table.Rows),
		Truncated: truncated,
		Raw:       raw,
		Selected:  selected,
	}
}
