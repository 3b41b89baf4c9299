package plugin

import (
	"github.com/agext/levenshtein"
)

// maxSuggestDistance bounds how far a misspelt name may be from a known one.
const maxSuggestDistance = 3

// Suggest returns the known name closest to name, if any is close enough.
func (r *Registry) Suggest(name string) (string, bool) {
	best, bestDist := "", maxSuggestDistance+1

	for _, known := range r.Names() {
		if d := levenshtein.Distance(name, known, nil); d < bestDist {
			best, bestDist = known, d
		}
	}

	return best, best != ""
}
