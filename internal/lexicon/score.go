package lexicon

import (
	"strings"

	"github.com/spacesedan/sentilex/internal/models"
)

type Result struct {
	Label        models.Label
	Score        int
	PositiveHits int
	NegativeHits int
}

// Score normalizes text and counts how many terms of each list occur in it.
// Matching is plain substring containment, not whole words: "puas" also hits
// inside "tidak puas". Each term counts at most once.
func (l *Lexicon) Score(text string) Result {
	normalized := Normalize(text)

	pos := countHits(normalized, l.positive)
	neg := countHits(normalized, l.negative)

	res := Result{PositiveHits: pos, NegativeHits: neg}
	switch {
	case pos > neg:
		res.Label = models.LabelPositive
		res.Score = pos - neg
	case neg > pos:
		res.Label = models.LabelNegative
		res.Score = neg - pos
	default:
		res.Label = models.LabelNeutral
		res.Score = 0
	}
	return res
}

func countHits(text string, terms []string) int {
	if text == "" {
		return 0
	}
	hits := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			hits++
		}
	}
	return hits
}
