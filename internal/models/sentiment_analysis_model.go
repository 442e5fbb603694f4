package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type Label string

const (
	LabelPositive Label = "Positive"
	LabelNegative Label = "Negative"
	LabelNeutral  Label = "Neutral"
	LabelUnknown  Label = "Unknown"
)

// Labels lists every label in display order.
var Labels = []Label{LabelPositive, LabelNegative, LabelNeutral, LabelUnknown}

func (l Label) String() string {
	return string(l)
}

const NotApplicableText = "N/A"

// Score is a lexicon score or the "not applicable" sentinel. The zero
// value is N/A; ScoreOf(0) is the genuine Neutral 0.
type Score struct {
	value      int
	applicable bool
}

// NotApplicable marks a result that was never scored.
var NotApplicable = Score{}

func ScoreOf(v int) Score {
	return Score{value: v, applicable: true}
}

func (s Score) Applicable() bool {
	return s.applicable
}

// Value returns the integer score and false when the score is N/A.
func (s Score) Value() (int, bool) {
	return s.value, s.applicable
}

func (s Score) String() string {
	if !s.applicable {
		return NotApplicableText
	}
	return strconv.Itoa(s.value)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.applicable {
		return json.Marshal(NotApplicableText)
	}
	return json.Marshal(s.value)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = ScoreOf(n)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("score: expected integer or %q: %w", NotApplicableText, err)
	}
	if str != NotApplicableText {
		return fmt.Errorf("score: unexpected value %q", str)
	}
	*s = NotApplicable
	return nil
}

// ParseScore is the inverse of Score.String.
func ParseScore(raw string) (Score, error) {
	if raw == NotApplicableText {
		return NotApplicable, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return Score{}, fmt.Errorf("score: %w", err)
	}
	return ScoreOf(n), nil
}

// ReferencePolarity is an advisory VADER reading attached to English text.
// It never changes the Label of a result.
type ReferencePolarity struct {
	Compound float64 `json:"compound"`
	Label    string  `json:"label"`
}

type AnalysisResult struct {
	Label        Label              `json:"label"`
	Score        Score              `json:"score"`
	Language     string             `json:"language"`
	PositiveHits int                `json:"positive_hits"`
	NegativeHits int                `json:"negative_hits"`
	Reference    *ReferencePolarity `json:"reference,omitempty"`
}
