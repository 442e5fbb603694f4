package web

import (
	"html/template"

	"github.com/spacesedan/sentilex/internal/models"
)

type pageData struct {
	Intro    template.HTML
	Text     string
	Warnings []string
	Result   *resultView
	Preview  *previewView
	Batch    *batchView
}

type resultView struct {
	Label     models.Label
	Score     string
	Language  string
	Color     string
	Reference *models.ReferencePolarity
	Chart     template.HTML
}

type previewView struct {
	FileName  string
	Columns   []string
	Rows      [][]string
	Total     int
	Truncated bool
	Raw       string
	Selected  string
}

type batchView struct {
	Column string
	Rows   []models.BatchRow
	Counts []models.LabelCount
	Chart  template.HTML
}

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type AnalyzeResponse struct {
	Text       string                `json:"text"`
	Result     models.AnalysisResult `json:"result"`
	LogWarning string                `json:"log_warning,omitempty"`
}

type BatchResponse struct {
	Column     string              `json:"column"`
	Rows       []models.BatchRow   `json:"rows"`
	Counts     []models.LabelCount `json:"counts"`
	LogWarning string              `json:"log_warning,omitempty"`
}

type StatsResponse struct {
	LabelCounts map[string]int64 `json:"label_counts"`
}

type HealthResponse struct {
	Status       string          `json:"status"`
	Time         string          `json:"time"`
	Capabilities map[string]bool `json:"capabilities,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
