package ledger

import "strings"

// euphemismVocabulary is the fixed set of softening replacements the
// classifier tends to introduce for mild-profanity edits. Used only to
// infer a category for bulk operations; never persisted.
var euphemismVocabulary = []string{
	"darn",
	"dang",
	"heck",
	"gosh",
	"shoot",
	"shucks",
	"jerk",
	"idiot",
	"rear",
	"blast",
}

// IsLanguageChange reports whether c looks like a mild-language softening
// edit: its candidate contains a euphemism-vocabulary word that is absent,
// case-insensitively, from the original.
//
// This is a heuristic, not an authoritative label. An edit that introduces
// one of these words for unrelated reasons will be misclassified, and an
// edit where the word appears verbatim on both sides will not be flagged.
func IsLanguageChange(c *Change) bool {
	original := strings.ToLower(c.Original)
	candidate := strings.ToLower(c.Candidate)
	for _, word := range euphemismVocabulary {
		if strings.Contains(candidate, word) && !strings.Contains(original, word) {
			return true
		}
	}
	return false
}
