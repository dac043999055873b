// Package suggest offers typo-tolerant "did you mean" lookups for error
// messages that name an identifier the caller got wrong.
package suggest

import "github.com/agext/levenshtein"

// threshold is the minimum similarity (0..1) Closest requires before it
// will offer a candidate. Tuned by hand against short HCL-style
// identifiers (section and generator names), where a handful of edited
// characters is still obviously a typo but a completely different word
// is not.
const threshold = 0.6

// Closest returns the candidate most similar to name, and true, if its
// similarity clears threshold. Otherwise it returns "", false. An empty
// candidates slice always reports false.
func Closest(name string, candidates []string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := levenshtein.Match(name, c, nil)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore < threshold {
		return "", false
	}
	return best, true
}
