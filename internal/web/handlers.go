package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"image/color"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spacesedan/sentilex/internal/analysis"
	"github.com/spacesedan/sentilex/internal/chart"
	"github.com/spacesedan/sentilex/internal/models"
)

const noColumnWarning = "No text column selected. Make sure to choose the column that contains the text."

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.renderPage(w, http.StatusOK, s.newPage())
}

// analyzeHandler scores the submitted text. Blank text renders the page
// without a result and without logging anything.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
	if err := r.ParseForm(); err != nil {
		data := s.newPage()
		data.Warnings = append(data.Warnings, "Failed to read the submitted text.")
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}

	data := s.newPage()
	data.Text = r.PostFormValue("text")
	if strings.TrimSpace(data.Text) == "" {
		s.renderPage(w, http.StatusOK, data)
		return
	}

	outcome := s.analyzer.AnalyzeText(r.Context(), data.Text)
	data.Result = s.resultView(outcome.Result)
	if outcome.LogErr != nil {
		data.Warnings = append(data.Warnings, logWarning(outcome.LogErr))
	}
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := s.newPage()
	up, err := s.readUpload(w, r)
	if err != nil {
		slog.Warn("[Web] Rejected upload", slog.String("error", err.Error()))
		data.Warnings = append(data.Warnings, uploadWarning(err))
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}

	data.Preview = newPreview(up.FileName, string(up.Raw), up.Table, "")
	s.renderPage(w, http.StatusOK, data)
}

// batchHandler analyses the selected column of the CSV posted back from the
// preview form.
func (s *Server) batchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := s.newPage()
	r.Body = http.MaxBytesReader(w, r.Body, s.batchBodyBytes())
	if err := s.parseBatchForm(r); err != nil {
		data.Warnings = append(data.Warnings, uploadWarning(err))
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}

	raw := r.PostFormValue("csv")
	column := r.PostFormValue("column")
	table, err := analysis.ReadTable(strings.NewReader(raw))
	if err != nil {
		data.Warnings = append(data.Warnings, uploadWarning(err))
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}
	data.Preview = newPreview(r.PostFormValue("filename"), raw, table, column)

	outcome, err := s.analyzer.AnalyzeBatch(r.Context(), table, column)
	if err != nil {
		data.Warnings = append(data.Warnings, columnWarning(err))
		s.renderPage(w, http.StatusOK, data)
		return
	}

	data.Batch = &batchView{
		Column: outcome.Column,
		Rows:   outcome.Rows,
		Counts: outcome.Counts,
	}
	if s.charts && len(outcome.Counts) > 0 {
		if svg, err := chart.Distribution(outcome.Counts); err != nil {
			slog.Warn("[Web] Failed to render distribution chart", slog.String("error", err.Error()))
		} else {
			data.Batch.Chart = inlineSVG(svg)
		}
	}
	if outcome.LogErr != nil {
		data.Warnings = append(data.Warnings, logWarning(outcome.LogErr))
	}
	s.renderPage(w, http.StatusOK, data)
}

// parseBatchForm accepts the preview form as multipart or URL-encoded.
func (s *Server) parseBatchForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(s.batchBodyBytes())
	}
	return r.ParseForm()
}

func (s *Server) newPage() *pageData {
	return &pageData{Intro: s.intro}
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data *pageData) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		slog.Error("[Web] Failed to render page", slog.String("error", err.Error()))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) resultView(res models.AnalysisResult) *resultView {
	view := &resultView{
		Label:     res.Label,
		Score:     res.Score.String(),
		Language:  res.Language,
		Color:     hexColor(chart.ColorFor(res.Label)),
		Reference: res.Reference,
	}

	score, ok := res.Score.Value()
	if !s.charts || !ok {
		return view
	}
	svg, err := chart.Result(res.Label, score)
	if err != nil {
		slog.Warn("[Web] Failed to render result chart", slog.String("error", err.Error()))
		return view
	}
	view.Chart = inlineSVG(svg)
	return view
}

// inlineSVG drops the XML prolog so the document can sit inside HTML.
func inlineSVG(svg []byte) template.HTML {
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		svg = svg[i:]
	}
	return template.HTML(svg)
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func logWarning(err error) string {
	return fmt.Sprintf("Failed to save log: %v", err)
}

func uploadWarning(err error) string {
	switch {
	case errors.Is(err, ErrNoFile), errors.Is(err, ErrNotCSV):
		return err.Error() + "."
	case errors.Is(err, analysis.ErrEmptyTable):
		return "The uploaded file is empty."
	default:
		return fmt.Sprintf("Could not read the uploaded file: %v", err)
	}
}

func columnWarning(err error) string {
	var unknown *analysis.UnknownColumnError
	switch {
	case errors.Is(err, analysis.ErrNoColumn):
		return noColumnWarning
	case errors.As(err, &unknown):
		return fmt.Sprintf("Column %q does not exist. %s", unknown.Column, noColumnWarning)
	default:
		return fmt.Sprintf("Analysis failed: %v", err)
	}
}
