package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentilex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentilex_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Analysis metrics
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentilex_analyses_total",
			Help: "Total number of analysed texts",
		},
		[]string{"mode", "label"}, // mode: text, batch
	)

	LanguageDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentilex_language_detections_total",
			Help: "Detected languages of single-text submissions",
		},
		[]string{"language"},
	)

	BatchRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentilex_batch_rows",
			Help:    "Number of rows per analysed CSV upload",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	// Log sink metrics
	LogAppendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentilex_log_append_failures_total",
			Help: "Total number of failed analysis log appends",
		},
		[]string{"sink"},
	)

	LogRecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentilex_log_records_written_total",
			Help: "Total number of analysis log records written",
		},
		[]string{"sink"},
	)
)
