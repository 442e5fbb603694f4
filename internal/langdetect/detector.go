package langdetect

import (
	"fmt"
	"log/slog"
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Unknown is returned whenever no language can be determined.
const Unknown = "unknown"

// Indonesian is the ISO 639-1 code the lexicon scorer is written for.
const Indonesian = "id"

// Classifier maps text to a lowercase ISO 639-1 code. It never fails: any
// detector problem collapses to Unknown.
type Classifier struct {
	detector lingua.LanguageDetector
}

// NewClassifier builds a detector over the given languages, or over every
// language lingua knows when none are given.
func NewClassifier(languages ...lingua.Language) (*Classifier, error) {
	var builder lingua.LanguageDetectorBuilder
	if len(languages) == 0 {
		builder = lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	} else {
		if len(languages) < 2 {
			return nil, fmt.Errorf("langdetect: at least two languages are required, got %d", len(languages))
		}
		builder = lingua.NewLanguageDetectorBuilder().FromLanguages(languages...)
	}

	return &Classifier{detector: builder.Build()}, nil
}

// ParseLanguages resolves ISO 639-1 codes ("id", "en") to lingua languages.
func ParseLanguages(codes []string) ([]lingua.Language, error) {
	langs := make([]lingua.Language, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		iso := lingua.GetIsoCode639_1FromValue(strings.ToUpper(code))
		if iso == lingua.UnknownIsoCode639_1 {
			return nil, fmt.Errorf("langdetect: unsupported language code %q", code)
		}
		langs = append(langs, lingua.GetLanguageFromIsoCode639_1(iso))
	}
	return langs, nil
}

func (c *Classifier) Classify(text string) (code string) {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("[LanguageClassifier] Detector panicked, falling back to unknown",
				slog.Any("panic", r))
			code = Unknown
		}
	}()

	lang, ok := c.detector.DetectLanguageOf(text)
	if !ok {
		return Unknown
	}

	code = strings.ToLower(lang.IsoCode639_1().String())
	if code == "" {
		return Unknown
	}
	return code
}
