package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spacesedan/sentilex/internal/analysis"
)

func (s *Server) apiAnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeErrorResponse(w, "text is required", http.StatusBadRequest)
		return
	}

	outcome := s.analyzer.AnalyzeText(r.Context(), req.Text)
	resp := AnalyzeResponse{Text: outcome.Input, Result: outcome.Result}
	if outcome.LogErr != nil {
		resp.LogWarning = logWarning(outcome.LogErr)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) apiBatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	outcome, err := s.analyzer.AnalyzeBatch(r.Context(), up.Table, r.FormValue("column"))
	if err != nil {
		var unknown *analysis.UnknownColumnError
		if errors.Is(err, analysis.ErrNoColumn) || errors.As(err, &unknown) {
			s.writeErrorResponse(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := BatchResponse{
		Column: outcome.Column,
		Rows:   outcome.Rows,
		Counts: outcome.Counts,
	}
	if outcome.LogErr != nil {
		resp.LogWarning = logWarning(outcome.LogErr)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.stats == nil {
		s.writeErrorResponse(w, "stats are not enabled", http.StatusNotFound)
		return
	}

	counts, err := s.stats.LabelCounts(r.Context())
	if err != nil {
		slog.Error("[Web] Failed to read label counts", slog.String("error", err.Error()))
		s.writeErrorResponse(w, "stats are unavailable", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, http.StatusOK, StatsResponse{LabelCounts: counts})
}

// healthHandler reports "degraded" when an optional capability is failing.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
	if s.health != nil {
		resp.Capabilities = s.health.Snapshot()
		if !s.health.Healthy() {
			resp.Status = "degraded"
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[Web] Failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, ErrorResponse{Error: message})
}
