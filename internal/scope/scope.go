// Package scope associates step comments with the nearest preceding spec
// URL citation in a document.
package scope

import (
	"sort"

	"github.com/webspec-lens/webspec-lens/internal/scanner"
)

// Scope pairs a spec URL citation with the step comments that fall under it.
type Scope struct {
	URL   scanner.URLMatch
	Steps []scanner.StepComment
}

// Build associates each step comment with the nearest preceding spec URL.
// A spec URL opens a scope that extends until the next spec URL or EOF.
func Build(urlMatches []scanner.URLMatch, stepComments []scanner.StepComment) []Scope {
	if len(urlMatches) == 0 {
		return nil
	}

	sortedURLs := append([]scanner.URLMatch(nil), urlMatches...)
	sort.SliceStable(sortedURLs, func(i, j int) bool { return sortedURLs[i].Line < sortedURLs[j].Line })

	sortedSteps := append([]scanner.StepComment(nil), stepComments...)
	sort.SliceStable(sortedSteps, func(i, j int) bool { return sortedSteps[i].Line < sortedSteps[j].Line })

	scopes := make([]Scope, len(sortedURLs))
	for i, u := range sortedURLs {
		scopes[i] = Scope{URL: u}
	}

	for _, step := range sortedSteps {
		best := -1
		for i, s := range scopes {
			if s.URL.Line <= step.Line {
				best = i
			} else {
				break
			}
		}
		if best >= 0 {
			scopes[best].Steps = append(scopes[best].Steps, step)
		}
	}

	return scopes
}
