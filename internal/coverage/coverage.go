// Package coverage computes per-algorithm implementation coverage from a
// set of step validations.
package coverage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/webspec-lens/webspec-lens/internal/matcher"
	"github.com/webspec-lens/webspec-lens/internal/scanner"
	"github.com/webspec-lens/webspec-lens/internal/stepparser"
)

// Validation is the result of validating one step comment against the spec.
type Validation struct {
	Step     scanner.StepComment
	Result   matcher.Result
	SpecText string
	AlgoName string
}

// Result summarizes coverage of a single spec algorithm in source code.
type Result struct {
	Anchor      string
	TotalSteps  int
	Implemented [][]int
	Missing     [][]int
	Warnings    int
	Reordered   int
}

// ImplementedCount returns the number of distinct steps found in code.
func (r Result) ImplementedCount() int {
	return len(r.Implemented)
}

// Summary renders a one-line summary for code lens display.
func (r Result) Summary() string {
	parts := []string{fmt.Sprintf("%s: %d/%d steps", r.Anchor, r.ImplementedCount(), r.TotalSteps)}
	if r.Warnings > 0 {
		plural := "s"
		if r.Warnings == 1 {
			plural = ""
		}
		parts = append(parts, fmt.Sprintf("%d warning%s", r.Warnings, plural))
	}
	if r.Reordered > 0 {
		parts = append(parts, fmt.Sprintf("%d reordered", r.Reordered))
	}
	return strings.Join(parts, " | ")
}

func numberKey(n []int) string {
	parts := make([]string, len(n))
	for i, v := range n {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ".")
}

// Compute computes coverage of an algorithm from a set of step validations
// restricted to that algorithm's scope.
func Compute(validations []Validation, algoSteps []*stepparser.AlgorithmStep, anchor string) Result {
	flat := stepparser.Flatten(algoSteps)
	total := len(flat)

	stepToIdx := make(map[string]int, len(flat))
	for i, s := range flat {
		stepToIdx[numberKey(s.Number)] = i
	}

	var implemented [][]int
	implementedSet := make(map[string]bool)
	var specOrderIndices []int
	warnings := 0

	for _, v := range validations {
		key := numberKey(v.Step.Number)
		switch v.Result {
		case matcher.Exact, matcher.Fuzzy:
			if !implementedSet[key] {
				implemented = append(implemented, v.Step.Number)
				implementedSet[key] = true
				if idx, ok := stepToIdx[key]; ok {
					specOrderIndices = append(specOrderIndices, idx)
				}
			}
		case matcher.Mismatch:
			if !implementedSet[key] {
				implemented = append(implemented, v.Step.Number)
				implementedSet[key] = true
				if idx, ok := stepToIdx[key]; ok {
					specOrderIndices = append(specOrderIndices, idx)
				}
			}
			warnings++
		case matcher.NotFound:
			warnings++
		}
	}

	var missing [][]int
	for _, s := range flat {
		if !implementedSet[numberKey(s.Number)] {
			missing = append(missing, s.Number)
		}
	}

	lisLen := longestIncreasingSubsequenceLength(specOrderIndices)
	reordered := len(specOrderIndices) - lisLen

	return Result{
		Anchor:      anchor,
		TotalSteps:  total,
		Implemented: implemented,
		Missing:     missing,
		Warnings:    warnings,
		Reordered:   reordered,
	}
}

// longestIncreasingSubsequenceLength returns the length of the longest
// strictly increasing subsequence of seq, computed via patience sorting in
// O(n log n).
func longestIncreasingSubsequenceLength(seq []int) int {
	var tails []int
	for _, v := range seq {
		pos := sort.SearchInts(tails, v)
		if pos == len(tails) {
			tails = append(tails, v)
		} else {
			tails[pos] = v
		}
	}
	return len(tails)
}
