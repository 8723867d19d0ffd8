// Package matcher classifies how well a step comment's text matches the
// corresponding spec algorithm step's text.
package matcher

import (
	"strings"

	"github.com/webspec-lens/webspec-lens/internal/normalize"
)

// Result is the outcome of classifying a step comment against spec text.
type Result string

const (
	Exact    Result = "exact"
	Fuzzy    Result = "fuzzy"
	Mismatch Result = "mismatch"
	NotFound Result = "not_found"
)

// DefaultThreshold is the Jaro-Winkler similarity threshold at or above which
// two normalized strings are considered a fuzzy match.
const DefaultThreshold = 0.85

// Classify compares a step comment's text against the corresponding spec
// step's text and classifies the result.
//
// commentText is the text following the step number in source; specText is
// the corresponding algorithm step's text. threshold is the Jaro-Winkler
// cutoff for a fuzzy match; callers typically pass DefaultThreshold.
//
// Classification order:
//  1. An empty (or whitespace-only) comment is step-number-only — EXACT.
//  2. Normalize both strings.
//  3. An empty normalized comment is EXACT; an empty normalized spec text
//     (with non-empty comment) is a MISMATCH.
//  4. Equal normalized strings are EXACT.
//  5. One is a prefix of the other — FUZZY.
//  6. One contains the other as a substring — FUZZY.
//  7. Jaro-Winkler similarity at or above threshold — FUZZY, else MISMATCH.
func Classify(commentText, specText string, threshold float64) Result {
	if strings.TrimSpace(commentText) == "" {
		return Exact
	}

	normComment := normalize.Normalize(commentText)
	normSpec := normalize.Normalize(specText)

	if normComment == "" {
		return Exact
	}
	if normSpec == "" {
		return Mismatch
	}

	if normComment == normSpec {
		return Exact
	}

	if strings.HasPrefix(normSpec, normComment) || strings.HasPrefix(normComment, normSpec) {
		return Fuzzy
	}

	if strings.Contains(normSpec, normComment) || strings.Contains(normComment, normSpec) {
		return Fuzzy
	}

	if normalize.JaroWinkler(normComment, normSpec) >= threshold {
		return Fuzzy
	}

	return Mismatch
}
