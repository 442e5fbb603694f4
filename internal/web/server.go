// Package web serves the single analysis page, its JSON API and the
// operational endpoints.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/sentilex/internal/analysis"
)

//go:embed templates/index.html templates/intro.md
var templateFS embed.FS

const (
	DefaultMaxUploadMB = 10
	previewRowLimit    = 200
)

type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) analysis.TextOutcome
	AnalyzeBatch(ctx context.Context, table *analysis.Table, column string) (*analysis.BatchOutcome, error)
}

// StatsSource reports running label counts. Nil disables /api/stats.
type StatsSource interface {
	LabelCounts(ctx context.Context) (map[string]int64, error)
}

type HealthReporter interface {
	Snapshot() map[string]bool
	Healthy() bool
}

type Config struct {
	Analyzer    Analyzer
	Stats       StatsSource
	Health      HealthReporter
	MaxUploadMB int64
	// Charts turns on SVG chart rendering in the page.
	Charts bool
}

type Server struct {
	analyzer    Analyzer
	stats       StatsSource
	health      HealthReporter
	maxUploadMB int64
	charts      bool

	page  *template.Template
	intro template.HTML
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Analyzer == nil {
		return nil, fmt.Errorf("[Web] analyzer is required")
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = DefaultMaxUploadMB
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("[Web] failed to parse page template: %w", err)
	}
	introMD, err := templateFS.ReadFile("templates/intro.md")
	if err != nil {
		return nil, fmt.Errorf("[Web] failed to read intro: %w", err)
	}

	return &Server{
		analyzer:    cfg.Analyzer,
		stats:       cfg.Stats,
		health:      cfg.Health,
		maxUploadMB: cfg.MaxUploadMB,
		charts:      cfg.Charts,
		page:        page,
		intro:       template.HTML(blackfriday.Run(bytes.TrimSpace(introMD))),
	}, nil
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.instrument("/", s.indexHandler))
	mux.HandleFunc("/analyze", s.instrument("/analyze", s.analyzeHandler))
	mux.HandleFunc("/upload", s.instrument("/upload", s.uploadHandler))
	mux.HandleFunc("/batch", s.instrument("/batch", s.batchHandler))
	mux.HandleFunc("/api/analyze", s.instrument("/api/analyze", s.apiAnalyzeHandler))
	mux.HandleFunc("/api/batch", s.instrument("/api/batch", s.apiBatchHandler))
	mux.HandleFunc("/api/stats", s.instrument("/api/stats", s.statsHandler))
	mux.HandleFunc("/health", s.instrument("/health", s.healthHandler))
	mux.Handle("/metrics", promhttp.Handler())
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	return mux
}

func (s *Server) maxUploadBytes() int64 {
	return s.maxUploadMB * 1024 * 1024
}

// batchBodyBytes bounds the /batch body, which carries an accepted upload
// back. URL encoding can triple it; the headroom covers form overhead.
func (s *Server) batchBodyBytes() int64 {
	return 3*s.maxUploadBytes() + 1024*1024
}
