package panel

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the catalog id closest to s, for "did you mean" hints.
// It reports false when no id is close enough to be a plausible typo.
func Suggest(s string) (ID, bool) {
	names := make([]string, len(order))
	for i, id := range order {
		names[i] = string(id)
	}
	best, ok := Closest(s, names)
	return ID(best), ok
}

// SuggestSection is [Suggest] for section names.
func SuggestSection(s string) (Section, bool) {
	names := make([]string, len(sections))
	for i, sec := range sections {
		names[i] = string(sec)
	}
	best, ok := Closest(s, names)
	return Section(best), ok
}

// Closest returns the candidate with the smallest edit distance to s,
// ignoring case. Candidates further than a third of their length (at least
// two edits) are not considered. Ties keep the earlier candidate.
func Closest(s string, candidates []string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(s, strings.ToLower(c))
		if d > max(2, len(c)/3) {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}
