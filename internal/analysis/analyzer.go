// Package analysis ties language detection, lexicon scoring and the
// analysis log together for single texts and CSV batches.
package analysis

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/spacesedan/sentilex/internal/langdetect"
	"github.com/spacesedan/sentilex/internal/lexicon"
	"github.com/spacesedan/sentilex/internal/metrics"
	"github.com/spacesedan/sentilex/internal/models"
	"github.com/spacesedan/sentilex/internal/utils"
)

type LanguageClassifier interface {
	Classify(text string) string
}

type ReferenceScorer interface {
	Polarity(text string) models.ReferencePolarity
}

type RecordWriter interface {
	Write(ctx context.Context, records []models.LogRecord) error
}

type Analyzer struct {
	lexicon    *lexicon.Lexicon
	classifier LanguageClassifier
	log        RecordWriter
	reference  ReferenceScorer
	now        func() time.Time
}

type Option func(*Analyzer)

// WithReference attaches an advisory scorer used for English text.
func WithReference(r ReferenceScorer) Option {
	return func(a *Analyzer) {
		a.reference = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

func New(lex *lexicon.Lexicon, classifier LanguageClassifier, log RecordWriter, opts ...Option) *Analyzer {
	a := &Analyzer{
		lexicon:    lex,
		classifier: classifier,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TextOutcome is the result of one submission. Result is always valid; LogErr
// is set when the log append failed.
type TextOutcome struct {
	Input  string
	Result models.AnalysisResult
	LogErr error
}

// BatchOutcome holds per-row results of a CSV column and the label
// distribution, most frequent first.
type BatchOutcome struct {
	Column string
	Rows   []models.BatchRow
	Counts []models.LabelCount
	LogErr error
}

// Score runs the lexicon scorer alone and reports the text as Indonesian.
func (a *Analyzer) Score(text string) models.AnalysisResult {
	res := a.lexicon.Score(text)
	return models.AnalysisResult{
		Label:        res.Label,
		Score:        models.ScoreOf(res.Score),
		Language:     langdetect.Indonesian,
		PositiveHits: res.PositiveHits,
		NegativeHits: res.NegativeHits,
	}
}

// AnalyzeText classifies the language, scores Indonesian text and appends
// one log record. Non-Indonesian text is Unknown with an N/A score.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) TextOutcome {
	lang := a.classifier.Classify(text)
	metrics.LanguageDetections.WithLabelValues(lang).Inc()

	var result models.AnalysisResult
	if lang == langdetect.Indonesian {
		result = a.Score(text)
	} else {
		result = models.AnalysisResult{
			Label:    models.LabelUnknown,
			Score:    models.NotApplicable,
			Language: lang,
		}
		if a.reference != nil && lang == "en" {
			ref := a.reference.Polarity(text)
			result.Reference = &ref
		}
	}
	metrics.AnalysesTotal.WithLabelValues("text", result.Label.String()).Inc()

	slog.Debug("[Analyzer] Analysed text",
		slog.String("language", result.Language),
		slog.String("label", result.Label.String()),
		slog.String("score", result.Score.String()))

	out := TextOutcome{Input: text, Result: result}
	out.LogErr = a.log.Write(ctx, []models.LogRecord{{
		Timestamp: a.now(),
		Input:     text,
		Sentiment: result.Label,
		Score:     result.Score,
		Language:  result.Language,
	}})
	return out
}

// AnalyzeBatch scores every cell of column without language detection and
// logs each row with language "id". An empty or unknown column is an error
// and nothing is analysed or logged.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, table *Table, column string) (*BatchOutcome, error) {
	values, err := table.Column(column)
	if err != nil {
		return nil, err
	}

	out := &BatchOutcome{
		Column: column,
		Rows:   make([]models.BatchRow, 0, len(values)),
	}
	counts := make(map[models.Label]int, 3)
	buffer := utils.NewBatchBuffer[models.LogRecord](len(values))

	for _, text := range values {
		res := a.Score(text)
		out.Rows = append(out.Rows, models.BatchRow{
			Text:           text,
			Sentiment:      res.Label,
			SentimentScore: res.Score,
		})
		counts[res.Label]++
		metrics.AnalysesTotal.WithLabelValues("batch", res.Label.String()).Inc()

		buffer.Add(models.LogRecord{
			Timestamp: a.now(),
			Input:     text,
			Sentiment: res.Label,
			Score:     res.Score,
			Language:  langdetect.Indonesian,
		})
	}
	out.Counts = sortedCounts(counts)
	metrics.BatchRows.Observe(float64(len(values)))

	buffer.LogBatchProcessing("csv")
	out.LogErr = a.log.Write(ctx, buffer.GetAndClear())

	slog.Info("[Analyzer] Analysed CSV column",
		slog.String("column", column),
		slog.Int("rows", len(out.Rows)))
	return out, nil
}

func sortedCounts(counts map[models.Label]int) []models.LabelCount {
	order := make(map[models.Label]int, len(models.Labels))
	for i, l := range models.Labels {
		order[l] = i
	}

	out := make([]models.LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, models.LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return order[out[i].Label] < order[out[j].Label]
	})
	return out
}
