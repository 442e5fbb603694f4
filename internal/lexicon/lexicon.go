// Package lexicon scores Indonesian text by counting positive and negative
// terms found in its normalized form.
//
// A Lexicon is immutable once built and safe for concurrent use.
package lexicon

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_lexicon.yaml
var defaultLexiconYAML []byte

var ErrEmptyTerm = errors.New("lexicon: empty term")

// OverlapError reports terms present in both the positive and negative lists.
type OverlapError struct {
	Terms []string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("lexicon: terms listed as both positive and negative: %s", strings.Join(e.Terms, ", "))
}

type Lexicon struct {
	positive []string
	negative []string
}

type lexiconFile struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// New builds a Lexicon. Terms are lowercased and trimmed, duplicates within a
// list are dropped and the two lists must not share a term.
func New(positive, negative []string) (*Lexicon, error) {
	pos, err := cleanTerms(positive)
	if err != nil {
		return nil, fmt.Errorf("positive terms: %w", err)
	}
	neg, err := cleanTerms(negative)
	if err != nil {
		return nil, fmt.Errorf("negative terms: %w", err)
	}

	seen := make(map[string]struct{}, len(pos))
	for _, term := range pos {
		seen[term] = struct{}{}
	}
	var overlap []string
	for _, term := range neg {
		if _, ok := seen[term]; ok {
			overlap = append(overlap, term)
		}
	}
	if len(overlap) > 0 {
		sort.Strings(overlap)
		return nil, &OverlapError{Terms: overlap}
	}

	return &Lexicon{positive: pos, negative: neg}, nil
}

// Default returns the built-in Indonesian lexicon.
func Default() (*Lexicon, error) {
	return Parse(defaultLexiconYAML)
}

// Parse reads a lexicon from a YAML document with "positive" and "negative"
// lists.
func Parse(data []byte) (*Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("lexicon: decode yaml: %w", err)
	}
	if len(f.Positive) == 0 && len(f.Negative) == 0 {
		return nil, errors.New("lexicon: document has no terms")
	}
	return New(f.Positive, f.Negative)
}

// Load reads a lexicon file, or the built-in lexicon when path is empty.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: read %s: %w", path, err)
	}
	return Parse(data)
}

func (l *Lexicon) Positive() []string {
	return append([]string(nil), l.positive...)
}

func (l *Lexicon) Negative() []string {
	return append([]string(nil), l.negative...)
}

func cleanTerms(terms []string) ([]string, error) {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, raw := range terms {
		term := Normalize(raw)
		if term == "" {
			return nil, fmt.Errorf("%w (input %q)", ErrEmptyTerm, raw)
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out, nil
}
