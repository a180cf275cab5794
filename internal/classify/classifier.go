// Package classify defines the content-classification boundary: given a
// paragraph and filtering levels, a classifier proposes a cleaned candidate
// text. Classifiers run strictly upstream of ledger creation; nothing in the
// review or output path depends on them.
package classify

import (
	"context"
	"fmt"

	"github.com/bookwash/bookwash/internal/config"
)

// Request asks a classifier to clean one paragraph.
type Request struct {
	// Text is the paragraph to examine, already decoded to Unicode text.
	Text string `json:"text"`

	// Levels are 1-4 (see RatingLabel for the display mapping).
	ProfanityLevel int `json:"profanity_level"`
	SexualLevel    int `json:"sexual_level"`
	ViolenceLevel  int `json:"violence_level"`

	// FilterWords selects which profanity terms to filter. Terms absent
	// from the map fall back to the severity-table default.
	FilterWords map[string]bool `json:"filter_words,omitempty"`
}

// Result is a classifier's proposed edit for one paragraph.
type Result struct {
	// CleanedText is the candidate replacement. Equal to the input text
	// when the classifier found nothing to change.
	CleanedText string `json:"cleaned_text"`

	// RemovedWords lists the terms the classifier softened or removed.
	RemovedWords []string `json:"removed_words,omitempty"`
}

// Changed reports whether the classifier proposed an actual edit.
func (r *Result) Changed(original string) bool {
	return r.CleanedText != original
}

// Classifier produces a cleaned candidate for a paragraph.
type Classifier interface {
	// Classify examines one paragraph. A nil error with an unchanged
	// CleanedText means the paragraph passed the filter.
	Classify(ctx context.Context, req *Request) (*Result, error)

	// Name returns the classifier identifier (e.g. "openai", "mock").
	Name() string
}

// New builds a classifier from its configuration.
func New(name string, cfg config.ClassifierCfg) (Classifier, error) {
	switch cfg.Type {
	case "openai":
		return NewOpenAIClassifier(OpenAIConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			RateLimit: cfg.RateLimit,
		}), nil
	case "mock":
		return NewMockClassifier(), nil
	default:
		return nil, fmt.Errorf("unknown classifier type %q for %q", cfg.Type, name)
	}
}

// NewFromConfig builds the classifier the configuration selects by default.
func NewFromConfig(cfg *config.Config) (Classifier, error) {
	name := cfg.Defaults.Classifier
	ccfg, ok := cfg.GetClassifier(name)
	if !ok {
		return nil, fmt.Errorf("default classifier %q not configured", name)
	}
	if !ccfg.Enabled {
		return nil, fmt.Errorf("default classifier %q is disabled", name)
	}
	ccfg.APIKey = config.ResolveEnvVars(ccfg.APIKey)
	return New(name, ccfg)
}
