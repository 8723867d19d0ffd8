// Package normalize canonicalizes step-comment and spec-step text for
// comparison, and scores the similarity of two already-normalized strings.
package normalize

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var (
	mdLink        = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdBold        = regexp.MustCompile(`\*\*([^*]*)\*\*`)
	mdItalic      = regexp.MustCompile(`\*([^*]*)\*`)
	mdCode        = regexp.MustCompile("`([^`]*)`")
	whitespaceRun = regexp.MustCompile(`\s+`)
	trailingPunct = regexp.MustCompile(`[.,:;!?]+$`)
)

// StripMarkdown removes inline markdown formatting, keeping the enclosed
// text. Order matters: links first (so bracket/paren syntax never leaks
// into later passes), then bold before italic (bold's double asterisks
// would otherwise be consumed a pair at a time by the italic pattern).
func StripMarkdown(text string) string {
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdBold.ReplaceAllString(text, "$1")
	text = mdItalic.ReplaceAllString(text, "$1")
	text = mdCode.ReplaceAllString(text, "$1")
	return text
}

// Normalize strips markdown, collapses whitespace, lowercases, and strips
// trailing punctuation, in that order, so that two descriptions of the same
// step compare equal regardless of incidental formatting differences.
func Normalize(text string) string {
	text = StripMarkdown(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = strings.ToLower(text)
	text = trailingPunct.ReplaceAllString(text, "")
	return text
}

// JaroWinkler returns the Jaro-Winkler similarity of a and b in [0, 1].
//
// It wraps matchr.JaroWinkler (a maintained, standard implementation) but
// pins the boundary contracts the matcher depends on: identical strings
// (including two empty strings) score 1, and a comparison against an empty
// string scores 0 unless both are empty.
func JaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	return matchr.JaroWinkler(a, b, false)
}
