// Package suggest proposes a "did you mean" correction for an unknown
// identifier by finding the closest match among a set of known names. It
// backs the property-dispatch and component-type-resolution
// diagnostics.
package suggest

import "github.com/xrash/smetrics"

// Threshold below which a match is considered too dissimilar to suggest.
const Threshold = 0.7

// Closest returns the candidate with the highest Jaro-Winkler similarity
// to name, and ok=true if that similarity clears Threshold. candidates
// with no entries, or no candidate clearing the threshold, yield ("", false).
func Closest(name string, candidates []string) (best string, ok bool) {
	var bestScore float64
	for _, c := range candidates {
		score := smetrics.JaroWinkler(name, c, 0.7, 4)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore < Threshold {
		return "", false
	}
	return best, true
}

// Hint formats a suggestion as diagnostic context text, or "" if none
// cleared the threshold.
func Hint(name string, candidates []string) string {
	if best, ok := Closest(name, candidates); ok {
		return "did you mean \"" + best + "\"?"
	}
	return ""
}
