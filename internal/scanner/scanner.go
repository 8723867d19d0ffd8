// Package scanner finds spec URL citations and numbered step comments in
// source text.
package scanner

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SpecRef is a known spec name and its canonical base URL.
type SpecRef struct {
	Spec    string
	BaseURL string
}

// URLMatch is one spec URL citation found in a document.
type URLMatch struct {
	Line     int
	ColStart int
	ColEnd   int
	Spec     string
	Anchor   string
	URL      string
}

// StepComment is one dotted step-number comment found in source.
type StepComment struct {
	Line     int
	ColStart int
	ColEnd   int
	Number   []int
	Text     string
	// EndLine is the last line consumed by continuation merging; -1 when the
	// comment occupies a single line.
	EndLine int
}

// End returns the line a comment's range should be considered to extend to.
func (s StepComment) End() int {
	if s.EndLine >= 0 {
		return s.EndLine
	}
	return s.Line
}

// stepPattern matches step comments across comment styles:
//
//	// Step 5.1. text    // 5.1. text    # Step 5. text    /* Step 5 text */
//
// A bare number ("// 42 is the answer" or "port 8080") is rejected unless
// at least one of a "Step " prefix, a trailing dot, or a multi-part number
// is present — see requiresStepSignal.
var stepPattern = regexp.MustCompile(
	`(?://|#|;+|/\*+|\*)\s*` + // comment prefix
		`([Ss]tep\s+)?` + // optional "Step " prefix (group 1)
		`(\d{1,3}(?:\.\d{1,3})*)` + // step number (group 2)
		`(\.)?` + // optional trailing dot (group 3)
		`\s*(.*?)\s*(?:\*/)?$`, // text, optional block-comment close (group 4)
)

var continuationPattern = regexp.MustCompile(`^\s*(?://|#|;+|\*)\s*(.*?)\s*(?:\*/)?$`)

// BuildURLPattern compiles a single alternation regex over the given specs'
// base URLs. Bases are sorted longest-first so that a more specific base
// (e.g. "https://dom.spec.whatwg.org/review") always wins over a shorter
// prefix of itself ("https://dom.spec.whatwg.org") — see spec.md's Open
// Question on overlapping base URLs.
func BuildURLPattern(refs []SpecRef) *regexp.Regexp {
	bases := make([]string, len(refs))
	for i, r := range refs {
		bases[i] = r.BaseURL
	}
	sort.Slice(bases, func(i, j int) bool { return len(bases[i]) > len(bases[j]) })

	escaped := make([]string, len(bases))
	for i, b := range bases {
		escaped[i] = regexp.QuoteMeta(b)
	}

	pattern := `(` + strings.Join(escaped, `|`) + `)/(?:[^\s#]*)?#([\w:._%{}()-]+)`
	return regexp.MustCompile(pattern)
}

// BuildSpecLookup builds a base URL -> spec name lookup table.
func BuildSpecLookup(refs []SpecRef) map[string]string {
	lookup := make(map[string]string, len(refs))
	for _, r := range refs {
		lookup[r.BaseURL] = r.Spec
	}
	return lookup
}

// Pattern bundles a compiled URL-citation regex with its base-URL lookup,
// so callers that build it once (e.g. a cache keyed lazily per analyzer)
// don't have to carry the two separately.
type Pattern struct {
	Regexp *regexp.Regexp
	Lookup map[string]string
}

// NewPattern builds a Pattern from the given specs.
func NewPattern(refs []SpecRef) *Pattern {
	return &Pattern{
		Regexp: BuildURLPattern(refs),
		Lookup: BuildSpecLookup(refs),
	}
}

// ScanDocument finds every spec URL citation in text, sorted by (line, col).
func ScanDocument(text string, pattern *regexp.Regexp, specLookup map[string]string) []URLMatch {
	var matches []URLMatch
	for lineNum, line := range strings.Split(text, "\n") {
		for _, loc := range pattern.FindAllStringSubmatchIndex(line, -1) {
			baseURL := line[loc[2]:loc[3]]
			anchor := line[loc[4]:loc[5]]
			matches = append(matches, URLMatch{
				Line:     lineNum,
				ColStart: loc[0],
				ColEnd:   loc[1],
				Spec:     specLookup[baseURL],
				Anchor:   anchor,
				URL:      line[loc[0]:loc[1]],
			})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Line != matches[j].Line {
			return matches[i].Line < matches[j].Line
		}
		return matches[i].ColStart < matches[j].ColStart
	})
	return matches
}

// ScanSteps finds every step comment in text, merging continuation lines.
func ScanSteps(text string) []StepComment {
	lines := strings.Split(text, "\n")
	var results []StepComment

	i := 0
	for i < len(lines) {
		m := stepPattern.FindStringSubmatchIndex(lines[i])
		if m == nil {
			i++
			continue
		}

		line := lines[i]
		hasStepPrefix := m[2] >= 0
		numberStr := submatch(line, m, 4)
		hasTrailingDot := m[6] >= 0
		stepText := submatch(line, m, 8)
		isMultiPart := strings.Contains(numberStr, ".")

		if !requiresStepSignal(hasStepPrefix, hasTrailingDot, isMultiPart) {
			i++
			continue
		}

		colStart := m[0]
		colEnd := m[1]
		j := i + 1
		for j < len(lines) {
			if stepPattern.MatchString(lines[j]) {
				break
			}
			cm := continuationPattern.FindStringSubmatchIndex(lines[j])
			if cm == nil || submatch(lines[j], cm, 2) == "" {
				break
			}
			stepText += " " + submatch(lines[j], cm, 2)
			colEnd = cm[1]
			j++
		}

		endLine := -1
		if j > i+1 {
			endLine = j - 1
		}

		number, ok := parseNumber(numberStr)
		if !ok {
			i = j
			continue
		}

		results = append(results, StepComment{
			Line:     i,
			ColStart: colStart,
			ColEnd:   colEnd,
			Number:   number,
			Text:     stepText,
			EndLine:  endLine,
		})
		i = j
	}
	return results
}

// requiresStepSignal rejects incidental bare numbers: at least one of a
// "Step" prefix, a trailing dot, or a multi-part number must be present.
func requiresStepSignal(hasStepPrefix, hasTrailingDot, isMultiPart bool) bool {
	return hasStepPrefix || hasTrailingDot || isMultiPart
}

func parseNumber(s string) ([]int, bool) {
	parts := strings.Split(s, ".")
	number := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		number[i] = n
	}
	return number, true
}

// submatch returns the text whose offsets are loc[g] and loc[g+1] in a
// FindStringSubmatchIndex result, so g is twice the group number (2 for
// group 1, 4 for group 2), or "" if the group did not participate.
func submatch(s string, loc []int, g int) string {
	start, end := loc[g], loc[g+1]
	if start < 0 || end < 0 {
		return ""
	}
	return s[start:end]
}

// FindURLAt returns the URL match whose range contains (line, col), if any.
func FindURLAt(matches []URLMatch, line, col int) (URLMatch, bool) {
	for _, m := range matches {
		if m.Line == line && col >= m.ColStart && col <= m.ColEnd {
			return m, true
		}
	}
	return URLMatch{}, false
}
