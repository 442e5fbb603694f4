package models

import "time"

// LogTimeLayout is the timestamp format written to the analysis log.
const LogTimeLayout = "2006-01-02 15:04:05"

// LogRecord is one append-only analysis log row.
type LogRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Input     string    `json:"input"`
	Sentiment Label     `json:"sentiment"`
	Score     Score     `json:"score"`
	Language  string    `json:"language"`
}

// Row returns the record in log column order:
// Timestamp, Input, Sentiment, Score, Language.
func (r LogRecord) Row() []string {
	return []string{
		r.Timestamp.Format(LogTimeLayout),
		r.Input,
		r.Sentiment.String(),
		r.Score.String(),
		r.Language,
	}
}

type BatchRow struct {
	Text           string `json:"text"`
	Sentiment      Label  `json:"sentiment"`
	SentimentScore Score  `json:"sentiment_score"`
}

type LabelCount struct {
	Label Label `json:"label"`
	Count int   `json:"count"`
}
