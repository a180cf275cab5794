package classify

import (
	"context"
	"regexp"
	"strings"
	"sync"
)

// mockReplacements maps filtered terms to deterministic euphemisms. Terms
// with no entry are dropped from the text entirely.
var mockReplacements = map[string]string{
	"damn":     "darn",
	"damned":   "darned",
	"hell":     "heck",
	"crap":     "shoot",
	"shit":     "shoot",
	"bullshit": "nonsense",
	"bastard":  "jerk",
	"asshole":  "jerk",
	"ass":      "rear",
	"goddamn":  "gosh-darn",
	"fuck":     "flip",
	"fucking":  "flipping",
}

// MockClassifier is a deterministic offline classifier: it substitutes
// filtered terms word-by-word from a fixed table. Used for tests and for
// running the pipeline without an API key.
type MockClassifier struct {
	mu    sync.Mutex
	calls int
}

// NewMockClassifier creates a mock classifier.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Name returns the classifier identifier.
func (m *MockClassifier) Name() string {
	return "mock"
}

// Calls returns how many paragraphs this instance has classified.
func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var wordPattern = regexp.MustCompile(`[A-Za-z']+`)

// Classify replaces each selected term with its table euphemism, matching
// whole words case-insensitively and preserving leading capitalization.
func (m *MockClassifier) Classify(ctx context.Context, req *Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	selected := MergeWordSelections(req.ProfanityLevel, req.FilterWords)

	var removed []string
	cleaned := wordPattern.ReplaceAllStringFunc(req.Text, func(word string) string {
		lower := strings.ToLower(word)
		if !selected[lower] {
			return word
		}
		removed = append(removed, lower)
		replacement, ok := mockReplacements[lower]
		if !ok {
			replacement = strings.Repeat("*", len(word))
		}
		return matchCapitalization(word, replacement)
	})

	return &Result{CleanedText: cleaned, RemovedWords: removed}, nil
}

// matchCapitalization uppercases the replacement's first letter when the
// original word started with one.
func matchCapitalization(original, replacement string) string {
	if original == "" || replacement == "" {
		return replacement
	}
	if original[0] >= 'A' && original[0] <= 'Z' {
		return strings.ToUpper(replacement[:1]) + replacement[1:]
	}
	return replacement
}
