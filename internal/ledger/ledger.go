// Package ledger defines the BookWash change ledger: the persisted record of
// proposed per-paragraph edits and their review status. The ledger is the
// single source of truth for review state; the parsed book is never mutated.
package ledger

import "regexp"

// Status is the review state of a change.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known review status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Change is one proposed paragraph-level edit.
//
// Only Status mutates after creation; ID, Original, and Candidate are fixed
// when the classification pass creates the entry.
type Change struct {
	// ID is canonically "<chapterIndex>.<changeIndex>", digits on each side.
	ID string `yaml:"id" json:"id"`

	// Original is the paragraph text as extracted from the source book.
	Original string `yaml:"original" json:"original"`

	// Candidate is the proposed replacement text.
	Candidate string `yaml:"candidate" json:"candidate"`

	Status Status `yaml:"status" json:"status"`
}

// Chapter groups the ordered changes of one book chapter.
type Chapter struct {
	Index   int      `yaml:"index" json:"index"`
	Title   string   `yaml:"title" json:"title"`
	Changes []Change `yaml:"changes" json:"changes"`
}

// Ledger is the persisted BookWash artifact.
type Ledger struct {
	// BookTitle and Source identify the book this ledger was produced from.
	BookTitle string `yaml:"book_title,omitempty" json:"book_title,omitempty"`
	Source    string `yaml:"source,omitempty" json:"source,omitempty"`

	Chapters []Chapter `yaml:"chapters" json:"chapters"`
}

// Changes returns pointers to every change across all chapters in encounter
// order (chapter order, then change order within the chapter).
func (l *Ledger) Changes() []*Change {
	var out []*Change
	for ci := range l.Chapters {
		for i := range l.Chapters[ci].Changes {
			out = append(out, &l.Chapters[ci].Changes[i])
		}
	}
	return out
}

// FindChange returns the change with the given id, or nil.
func (l *Ledger) FindChange(id string) *Change {
	for _, c := range l.Changes() {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CountByStatus returns the number of changes currently in the given status.
func (l *Ledger) CountByStatus(s Status) int {
	n := 0
	for _, c := range l.Changes() {
		if c.Status == s {
			n++
		}
	}
	return n
}

var (
	canonicalIDPattern = regexp.MustCompile(`^(\d+)\.(\d+)$`)
	digitRunPattern    = regexp.MustCompile(`\d+`)
)

// SortKey parses a change id into its (chapterIndex, changeIndex) sort key.
//
// Canonical ids are "<chapter>.<change>". Anything else falls back to the
// first run of digits found anywhere in the id, used as the change index
// with chapter index 0; ids with no digits at all key as (0, 0). This
// fallback exists for legacy/malformed ids and deliberately stays lenient:
// callers must stable-sort so ties keep encounter order.
func SortKey(id string) (chapter, change int) {
	if m := canonicalIDPattern.FindStringSubmatch(id); m != nil {
		return atoiSafe(m[1]), atoiSafe(m[2])
	}
	if run := digitRunPattern.FindString(id); run != "" {
		return 0, atoiSafe(run)
	}
	return 0, 0
}

// atoiSafe parses a digit run, saturating on overflow so pathological ids
// still sort deterministically.
func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
		if n < 0 {
			return int(^uint(0) >> 1)
		}
	}
	return n
}
