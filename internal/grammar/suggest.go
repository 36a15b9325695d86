package grammar

import (
	"strings"

	edlib "github.com/hbollon/go-edlib"
)

// SuggestTag returns the canonical tag closest to a misspelled language
// name, or "" when nothing is within editing distance 2.
func (r *Registry) SuggestTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))

	best, bestDistance := "", 1000
	for name := range r.byTag {
		if d := edlib.LevenshteinDistance(tag, name); d < bestDistance {
			best, bestDistance = name, d
		}
	}
	if bestDistance == 0 || bestDistance > 2 {
		return ""
	}

	// Report the canonical tag even when an alias was closest.
	if lang, ok := r.byTag[best]; ok {
		return lang.Tag
	}
	return best
}
