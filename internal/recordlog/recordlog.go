// Package recordlog appends analysis log records to a primary CSV file and,
// optionally, to mirror sinks.
package recordlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spacesedan/sentilex/internal/metrics"
	"github.com/spacesedan/sentilex/internal/models"
)

// Sink receives batches of log records. A batch is written contiguously.
type Sink interface {
	Name() string
	Write(ctx context.Context, records []models.LogRecord) error
}

// AppendError reports a failed append to the primary sink.
type AppendError struct {
	Sink string
	Err  error
}

func (e *AppendError) Error() string {
	return fmt.Sprintf("failed to append analysis log to %s: %v", e.Sink, e.Err)
}

func (e *AppendError) Unwrap() error {
	return e.Err
}

// Journal writes every batch to the primary sink and then to each mirror.
// Only primary failures are returned; mirror failures are logged and counted.
type Journal struct {
	primary Sink
	mirrors []Sink
}

func NewJournal(primary Sink, mirrors ...Sink) *Journal {
	return &Journal{primary: primary, mirrors: mirrors}
}

func (j *Journal) Write(ctx context.Context, records []models.LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	var primaryErr error
	if err := j.primary.Write(ctx, records); err != nil {
		metrics.LogAppendFailures.WithLabelValues(j.primary.Name()).Inc()
		slog.Error("[RecordLog] Failed to append records",
			slog.String("sink", j.primary.Name()),
			slog.Int("records", len(records)),
			slog.String("error", err.Error()))
		primaryErr = &AppendError{Sink: j.primary.Name(), Err: err}
	} else {
		metrics.LogRecordsWritten.WithLabelValues(j.primary.Name()).Add(float64(len(records)))
	}

	for _, mirror := range j.mirrors {
		if err := mirror.Write(ctx, records); err != nil {
			metrics.LogAppendFailures.WithLabelValues(mirror.Name()).Inc()
			slog.Warn("[RecordLog] Mirror sink failed",
				slog.String("sink", mirror.Name()),
				slog.Int("records", len(records)),
				slog.String("error", err.Error()))
			continue
		}
		metrics.LogRecordsWritten.WithLabelValues(mirror.Name()).Add(float64(len(records)))
	}

	return primaryErr
}

// Close closes every sink that has a Close method.
func (j *Journal) Close() error {
	var errs []error
	for _, s := range append([]Sink{j.primary}, j.mirrors...) {
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", s.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
