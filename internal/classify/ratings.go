package classify

// Severity groups profanity terms for the default filter selection.
type Severity string

const (
	SeverityMild       Severity = "mild"
	SeverityModerate   Severity = "moderate"
	SeverityStrong     Severity = "strong"
	SeveritySevere     Severity = "severe"
	SeverityInvocation Severity = "invocation"
	SeveritySlur       Severity = "slur"
)

// toleranceLevel maps each severity group to the lowest profanity level at
// which its terms are tolerated (left unfiltered) by default. Level 1 (G)
// filters everything; level 4 (R) tolerates everything except slurs, which
// carry a tolerance above the scale so they stay filtered at every level.
var toleranceLevel = map[Severity]int{
	SeverityMild:       2,
	SeverityModerate:   3,
	SeverityInvocation: 3,
	SeverityStrong:     4,
	SeveritySevere:     4,
	SeveritySlur:       5,
}

// severityTable assigns each known profanity term a severity group. The
// table is a fixed lookup, not mutable state; per-term overrides travel in
// the request's FilterWords map.
var severityTable = map[string]Severity{
	// mild
	"damn":    SeverityMild,
	"damned":  SeverityMild,
	"hell":    SeverityMild,
	"crap":    SeverityMild,
	"piss":    SeverityMild,
	"pissed":  SeverityMild,
	"ass":     SeverityMild,
	"arse":    SeverityMild,
	"bloody":  SeverityMild,
	"bugger":  SeverityMild,
	"darned":  SeverityMild,
	"freakin": SeverityMild,

	// moderate
	"bastard":  SeverityModerate,
	"bitch":    SeverityModerate,
	"asshole":  SeverityModerate,
	"arsehole": SeverityModerate,
	"dick":     SeverityModerate,
	"prick":    SeverityModerate,
	"bollocks": SeverityModerate,
	"douche":   SeverityModerate,
	"whore":    SeverityModerate,
	"slut":     SeverityModerate,

	// strong
	"shit":      SeverityStrong,
	"bullshit":  SeverityStrong,
	"shitty":    SeverityStrong,
	"horseshit": SeverityStrong,

	// severe
	"fuck":         SeveritySevere,
	"fucking":      SeveritySevere,
	"fucked":       SeveritySevere,
	"motherfucker": SeveritySevere,
	"cunt":         SeveritySevere,

	// invocations
	"goddamn":      SeverityInvocation,
	"goddamned":    SeverityInvocation,
	"jesus christ": SeverityInvocation,
	"christ":       SeverityInvocation,

	// slurs always default to filtered
	"fag":    SeveritySlur,
	"faggot": SeveritySlur,
	"retard": SeveritySlur,
}

// TermSeverity returns the severity group of a known term.
func TermSeverity(term string) (Severity, bool) {
	s, ok := severityTable[term]
	return s, ok
}

// DefaultWordSelections returns the default per-term filter selection for a
// profanity level: a term is selected for filtering when the level falls
// below its severity group's tolerance. The returned map is fresh; callers
// may layer user overrides on top of it.
func DefaultWordSelections(profanityLevel int) map[string]bool {
	out := make(map[string]bool, len(severityTable))
	for term, sev := range severityTable {
		out[term] = profanityLevel < toleranceLevel[sev]
	}
	return out
}

// MergeWordSelections layers explicit per-term overrides over the defaults
// for the given level.
func MergeWordSelections(profanityLevel int, overrides map[string]bool) map[string]bool {
	out := DefaultWordSelections(profanityLevel)
	for term, selected := range overrides {
		out[term] = selected
	}
	return out
}

// RatingLabel maps a 1-4 content level to its display label. The mapping is
// presentational only.
func RatingLabel(level int) string {
	switch level {
	case 1:
		return "G"
	case 2:
		return "PG"
	case 3:
		return "PG-13"
	case 4:
		return "R"
	}
	return "?"
}
