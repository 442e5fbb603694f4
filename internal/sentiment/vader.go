package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/sentilex/internal/models"
)

const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// Reference scores English text with VADER. Its output is advisory and never
// replaces the lexicon label.
type Reference struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewReference() *Reference {
	return &Reference{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(RemoveLinks(input)), blackfriday.WithNoExtensions())
	plainText := tagPattern.ReplaceAllString(string(output), " ")
	return strings.Join(strings.Fields(plainText), " ")
}

func (r *Reference) Polarity(text string) models.ReferencePolarity {
	plainText := ConvertMarkdownToText(text)

	score := r.analyzer.PolarityScores(plainText).Compound

	var label string
	if score >= positiveThreshold {
		label = "positive"
	} else if score <= negativeThreshold {
		label = "negative"
	} else {
		label = "neutral"
	}

	return models.ReferencePolarity{Compound: score, Label: label}
}
