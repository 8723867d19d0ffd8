package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspec-lens/webspec-lens/internal/scanner"
)

func htmlRefs() []scanner.SpecRef {
	return []scanner.SpecRef{
		{Spec: "HTML", BaseURL: "https://html.spec.whatwg.org"},
		{Spec: "DOM", BaseURL: "https://dom.spec.whatwg.org"},
	}
}

func TestScanDocument(t *testing.T) {
	pattern := scanner.BuildURLPattern(htmlRefs())
	lookup := scanner.BuildSpecLookup(htmlRefs())

	text := "// see https://html.spec.whatwg.org/multipage/browsing-the-web.html#navigate\n" +
		"// also https://dom.spec.whatwg.org/#concept-tree for context\n"

	matches := scanner.ScanDocument(text, pattern, lookup)
	require.Len(t, matches, 2)
	assert.Equal(t, "HTML", matches[0].Spec)
	assert.Equal(t, "navigate", matches[0].Anchor)
	assert.Equal(t, 0, matches[0].Line)
	assert.Equal(t, "DOM", matches[1].Spec)
	assert.Equal(t, "concept-tree", matches[1].Anchor)
	assert.Equal(t, 1, matches[1].Line)
}

func TestScanDocumentLongestBaseWins(t *testing.T) {
	refs := []scanner.SpecRef{
		{Spec: "SHORT", BaseURL: "https://example.com"},
		{Spec: "LONG", BaseURL: "https://example.com/review"},
	}
	pattern := scanner.BuildURLPattern(refs)
	lookup := scanner.BuildSpecLookup(refs)

	matches := scanner.ScanDocument("// https://example.com/review/x.html#anchor\n", pattern, lookup)
	require.Len(t, matches, 1)
	assert.Equal(t, "LONG", matches[0].Spec)
}

func TestScanSteps_BareNumberRejected(t *testing.T) {
	// Scenario (b): no "Step" prefix, no trailing dot, single part.
	steps := scanner.ScanSteps("// 42 is the answer\n")
	assert.Empty(t, steps)
}

func TestScanSteps_TrailingDotAccepted(t *testing.T) {
	// Scenario (c).
	steps := scanner.ScanSteps("// 5. Let x be y\n")
	require.Len(t, steps, 1)
	assert.Equal(t, []int{5}, steps[0].Number)
	assert.Equal(t, "Let x be y", steps[0].Text)
}

func TestScanSteps_StepPrefixAccepted(t *testing.T) {
	steps := scanner.ScanSteps("// Step 7 do the thing\n")
	require.Len(t, steps, 1)
	assert.Equal(t, []int{7}, steps[0].Number)
}

func TestScanSteps_MultiPartAccepted(t *testing.T) {
	steps := scanner.ScanSteps("// 5.1.2 nested step, no trailing dot\n")
	require.Len(t, steps, 1)
	assert.Equal(t, []int{5, 1, 2}, steps[0].Number)
}

func TestScanSteps_ContinuationMerging(t *testing.T) {
	text := "// Step 3. Let result be the outcome\n" +
		"// of the prior algorithm\n" +
		"// Step 4. Return result\n"
	steps := scanner.ScanSteps(text)
	require.Len(t, steps, 2)
	assert.Equal(t, "Let result be the outcome of the prior algorithm", steps[0].Text)
	assert.Equal(t, 0, steps[0].Line)
	assert.Equal(t, 1, steps[0].EndLine)
	assert.Equal(t, -1, steps[1].EndLine)
}

func TestScanSteps_ContinuationStopsAtNextStep(t *testing.T) {
	text := "// Step 1. First\n// Step 2. Second\n"
	steps := scanner.ScanSteps(text)
	require.Len(t, steps, 2)
	assert.Equal(t, -1, steps[0].EndLine)
}

func TestFindURLAt(t *testing.T) {
	matches := []scanner.URLMatch{{Line: 2, ColStart: 5, ColEnd: 20}}
	m, ok := scanner.FindURLAt(matches, 2, 10)
	require.True(t, ok)
	assert.Equal(t, matches[0], m)

	_, ok = scanner.FindURLAt(matches, 2, 30)
	assert.False(t, ok)
}

func TestStepCommentEnd(t *testing.T) {
	s := scanner.StepComment{Line: 5, EndLine: -1}
	assert.Equal(t, 5, s.End())
	s.EndLine = 8
	assert.Equal(t, 8, s.End())
}
