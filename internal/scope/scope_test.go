package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspec-lens/webspec-lens/internal/scanner"
	"github.com/webspec-lens/webspec-lens/internal/scope"
)

func TestBuild_NoURLs(t *testing.T) {
	assert.Empty(t, scope.Build(nil, []scanner.StepComment{{Line: 1}}))
}

func TestBuild_AssignsToNearestPrecedingURL(t *testing.T) {
	urls := []scanner.URLMatch{
		{Line: 0, Spec: "HTML"},
		{Line: 10, Spec: "DOM"},
	}
	steps := []scanner.StepComment{
		{Line: 2, Number: []int{1}},
		{Line: 12, Number: []int{1}},
		{Line: 15, Number: []int{2}},
	}
	scopes := scope.Build(urls, steps)
	require.Len(t, scopes, 2)
	assert.Equal(t, "HTML", scopes[0].URL.Spec)
	require.Len(t, scopes[0].Steps, 1)
	assert.Equal(t, "DOM", scopes[1].URL.Spec)
	require.Len(t, scopes[1].Steps, 2)
}

func TestBuild_StepBeforeAnyURLIsUnassigned(t *testing.T) {
	urls := []scanner.URLMatch{{Line: 10, Spec: "HTML"}}
	steps := []scanner.StepComment{{Line: 2}}
	scopes := scope.Build(urls, steps)
	require.Len(t, scopes, 1)
	assert.Empty(t, scopes[0].Steps)
}

func TestBuild_UnsortedInputIsSorted(t *testing.T) {
	urls := []scanner.URLMatch{
		{Line: 20, Spec: "DOM"},
		{Line: 0, Spec: "HTML"},
	}
	steps := []scanner.StepComment{{Line: 1}}
	scopes := scope.Build(urls, steps)
	require.Len(t, scopes, 2)
	assert.Equal(t, "HTML", scopes[0].URL.Spec)
	require.Len(t, scopes[0].Steps, 1)
}
