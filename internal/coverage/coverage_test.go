package coverage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspec-lens/webspec-lens/internal/coverage"
	"github.com/webspec-lens/webspec-lens/internal/matcher"
	"github.com/webspec-lens/webspec-lens/internal/scanner"
	"github.com/webspec-lens/webspec-lens/internal/stepparser"
)

const simpleAlgo = "1. First.\n2. Second.\n3. Third."

const nestedAlgo = "1. Parent.\n\n    1. Child one.\n    2. Child two.\n2. Other.\n"

func fakeValidation(number []int, result matcher.Result) coverage.Validation {
	return coverage.Validation{
		Step:     scanner.StepComment{Line: 0, ColStart: 0, ColEnd: 10, Number: number},
		Result:   result,
		SpecText: "",
		AlgoName: "test",
	}
}

func TestCompute_AllExact(t *testing.T) {
	steps := stepparser.Parse(simpleAlgo)
	vals := []coverage.Validation{
		fakeValidation([]int{1}, matcher.Exact),
		fakeValidation([]int{2}, matcher.Exact),
		fakeValidation([]int{3}, matcher.Exact),
	}
	cov := coverage.Compute(vals, steps, "test")
	assert.Equal(t, 3, cov.TotalSteps)
	assert.Equal(t, 3, cov.ImplementedCount())
	assert.Empty(t, cov.Missing)
	assert.Zero(t, cov.Warnings)
	assert.Zero(t, cov.Reordered)
}

func TestCompute_PartialCoverage(t *testing.T) {
	steps := stepparser.Parse(simpleAlgo)
	vals := []coverage.Validation{
		fakeValidation([]int{1}, matcher.Exact),
		fakeValidation([]int{3}, matcher.Fuzzy),
	}
	cov := coverage.Compute(vals, steps, "test")
	assert.Equal(t, 3, cov.TotalSteps)
	assert.Equal(t, 2, cov.ImplementedCount())
	assert.Equal(t, [][]int{{2}}, cov.Missing)
	assert.Zero(t, cov.Warnings)
}

func TestCompute_MismatchCountsAsImplementedWithWarning(t *testing.T) {
	steps := stepparser.Parse(simpleAlgo)
	vals := []coverage.Validation{
		fakeValidation([]int{1}, matcher.Exact),
		fakeValidation([]int{2}, matcher.Mismatch),
	}
	cov := coverage.Compute(vals, steps, "test")
	assert.Equal(t, 2, cov.ImplementedCount())
	assert.Equal(t, 1, cov.Warnings)
	assert.Equal(t, [][]int{{3}}, cov.Missing)
}

func TestCompute_NotFoundIsWarningOnly(t *testing.T) {
	steps := stepparser.Parse(simpleAlgo)
	vals := []coverage.Validation{
		fakeValidation([]int{1}, matcher.Exact),
		fakeValidation([]int{99}, matcher.NotFound),
	}
	cov := coverage.Compute(vals, steps, "test")
	assert.Equal(t, 1, cov.ImplementedCount())
	assert.Equal(t, 1, cov.Warnings)
	assert.Len(t, cov.Missing, 2)
}

func TestCompute_ReorderedDetection(t *testing.T) {
	steps := stepparser.Parse(simpleAlgo)
	vals := []coverage.Validation{
		fakeValidation([]int{3}, matcher.Exact),
		fakeValidation([]int{1}, matcher.Exact),
		fakeValidation([]int{2}, matcher.Exact),
	}
	cov := coverage.Compute(vals, steps, "test")
	assert.Equal(t, 3, cov.ImplementedCount())
	assert.Equal(t, 1, cov.Reordered)
}

func TestCompute_NoValidations(t *testing.T) {
	steps := stepparser.Parse(simpleAlgo)
	cov := coverage.Compute(nil, steps, "test")
	assert.Equal(t, 3, cov.TotalSteps)
	assert.Zero(t, cov.ImplementedCount())
	assert.Len(t, cov.Missing, 3)
	assert.Zero(t, cov.Warnings)
	assert.Zero(t, cov.Reordered)
}

func TestCompute_NestedCoverage(t *testing.T) {
	steps := stepparser.Parse(nestedAlgo)
	vals := []coverage.Validation{
		fakeValidation([]int{1}, matcher.Exact),
		fakeValidation([]int{1, 2}, matcher.Fuzzy),
	}
	cov := coverage.Compute(vals, steps, "test")
	assert.Equal(t, 4, cov.TotalSteps)
	assert.Equal(t, 2, cov.ImplementedCount())
	assert.Contains(t, cov.Missing, []int{1, 1})
	assert.Contains(t, cov.Missing, []int{2})
}

func TestCompute_DuplicateStepCountedOnce(t *testing.T) {
	steps := stepparser.Parse(simpleAlgo)
	vals := []coverage.Validation{
		fakeValidation([]int{1}, matcher.Exact),
		fakeValidation([]int{1}, matcher.Exact),
		fakeValidation([]int{2}, matcher.Exact),
	}
	cov := coverage.Compute(vals, steps, "test")
	assert.Equal(t, 2, cov.ImplementedCount())
	assert.Equal(t, [][]int{{3}}, cov.Missing)
}

func numberedRange(n int) [][]int {
	out := make([][]int, n)
	for i := 0; i < n; i++ {
		out[i] = []int{i + 1}
	}
	return out
}

func TestSummary_AllGood(t *testing.T) {
	cov := coverage.Result{Anchor: "navigate", TotalSteps: 23, Implemented: numberedRange(23)}
	assert.Equal(t, "navigate: 23/23 steps", cov.Summary())
}

func TestSummary_WithWarnings(t *testing.T) {
	cov := coverage.Result{
		Anchor:      "navigate",
		TotalSteps:  23,
		Implemented: [][]int{{1}, {2}, {3}},
		Warnings:    2,
	}
	assert.Equal(t, "navigate: 3/23 steps | 2 warnings", cov.Summary())
}

func TestSummary_WithReordered(t *testing.T) {
	cov := coverage.Result{
		Anchor:      "navigate",
		TotalSteps:  10,
		Implemented: [][]int{{1}, {2}, {3}},
		Reordered:   1,
	}
	assert.Equal(t, "navigate: 3/10 steps | 1 reordered", cov.Summary())
}

func TestSummary_WithAll(t *testing.T) {
	cov := coverage.Result{
		Anchor:      "navigate",
		TotalSteps:  23,
		Implemented: [][]int{{1}, {2}},
		Warnings:    1,
		Reordered:   2,
	}
	assert.Equal(t, "navigate: 2/23 steps | 1 warning | 2 reordered", cov.Summary())
}

func TestSummary_SingularWarning(t *testing.T) {
	cov := coverage.Result{
		Anchor:      "test",
		TotalSteps:  5,
		Implemented: [][]int{{1}},
		Warnings:    1,
	}
	summary := cov.Summary()
	assert.Contains(t, summary, "1 warning")
	assert.NotContains(t, summary, "warnings")
	require.NotEmpty(t, summary)
}
