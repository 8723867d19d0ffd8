// Package analyzer orchestrates document scanning, step validation, and
// coverage computation, caching intermediate results per document version
// so repeated requests (hover, inlay hints, code lens) against an unchanged
// document don't redo work.
package analyzer

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/webspec-lens/webspec-lens/internal/coverage"
	"github.com/webspec-lens/webspec-lens/internal/matcher"
	"github.com/webspec-lens/webspec-lens/internal/provider"
	"github.com/webspec-lens/webspec-lens/internal/scanner"
	"github.com/webspec-lens/webspec-lens/internal/scope"
	"github.com/webspec-lens/webspec-lens/internal/stepparser"
)

// DocCoverage pairs a scope's spec URL with its computed coverage.
type DocCoverage struct {
	URL    scanner.URLMatch
	Result coverage.Result
}

type versioned[T any] struct {
	version int
	value   T
}

// Analyzer is safe for concurrent use. Every cache is guarded by a single
// mutex — request volume here is low enough (editor-driven, one document at
// a time in practice) that finer-grained locking would add complexity
// without a measurable benefit, and a single mutex rules out the lock-order
// bugs that come from guarding related caches separately.
type Analyzer struct {
	provider       provider.SpecProvider
	fuzzyThreshold float64
	logger         *slog.Logger

	patternOnce sync.Once
	urlPattern  *scanner.Pattern

	queryGroup singleflight.Group

	mu             sync.Mutex
	docURLs        map[string]versioned[[]scanner.URLMatch]
	queryCache     map[string]provider.Section
	algoStepsCache map[string][]*stepparser.AlgorithmStep
	docValidations map[string]versioned[[]coverage.Validation]
	docScopes      map[string]versioned[[]scope.Scope]
	docCoverages   map[string]versioned[[]DocCoverage]
}

// New creates an Analyzer backed by p, classifying step matches at
// fuzzyThreshold.
func New(p provider.SpecProvider, fuzzyThreshold float64, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		provider:       p,
		fuzzyThreshold: fuzzyThreshold,
		logger:         logger,
		docURLs:        make(map[string]versioned[[]scanner.URLMatch]),
		queryCache:     make(map[string]provider.Section),
		algoStepsCache: make(map[string][]*stepparser.AlgorithmStep),
		docValidations: make(map[string]versioned[[]coverage.Validation]),
		docScopes:      make(map[string]versioned[[]scope.Scope]),
		docCoverages:   make(map[string]versioned[[]DocCoverage]),
	}
}

// SetFuzzyThreshold overrides the classification threshold, e.g. from
// initializationOptions.fuzzyThreshold.
func (a *Analyzer) SetFuzzyThreshold(threshold float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fuzzyThreshold = threshold
}

func (a *Analyzer) ensurePattern() *scanner.Pattern {
	a.patternOnce.Do(func() {
		a.urlPattern = scanner.NewPattern(a.provider.SpecURLs())
	})
	return a.urlPattern
}

// ScanDoc scans text for spec URL citations, using the per-document cache
// when version matches a prior scan.
func (a *Analyzer) ScanDoc(uri, text string, version int) []scanner.URLMatch {
	pattern := a.ensurePattern()

	a.mu.Lock()
	if cached, ok := a.docURLs[uri]; ok && cached.version == version {
		a.mu.Unlock()
		return cached.value
	}
	a.mu.Unlock()

	matches := scanner.ScanDocument(text, pattern.Regexp, pattern.Lookup)

	a.mu.Lock()
	a.docURLs[uri] = versioned[[]scanner.URLMatch]{version: version, value: matches}
	a.mu.Unlock()
	return matches
}

// QuerySpec resolves a spec section with caching and in-flight
// deduplication: concurrent requests for the same "spec#anchor" share one
// provider call.
func (a *Analyzer) QuerySpec(ctx context.Context, spec, anchor string) (provider.Section, bool) {
	key := spec + "#" + anchor

	a.mu.Lock()
	if cached, ok := a.queryCache[key]; ok {
		a.mu.Unlock()
		return cached, true
	}
	a.mu.Unlock()

	v, err, _ := a.queryGroup.Do(key, func() (any, error) {
		section, found, err := a.provider.Query(ctx, spec, anchor)
		if err != nil || !found {
			return provider.Section{}, err
		}
		a.mu.Lock()
		a.queryCache[key] = section
		a.mu.Unlock()
		return section, nil
	})
	if err != nil {
		a.logger.Debug("query failed", "spec", spec, "anchor", anchor, "error", err)
		return provider.Section{}, false
	}
	section, ok := v.(provider.Section)
	if !ok || section == (provider.Section{}) {
		return provider.Section{}, false
	}
	return section, true
}

func (a *Analyzer) getAlgoSteps(anchor, content string) []*stepparser.AlgorithmStep {
	a.mu.Lock()
	if cached, ok := a.algoStepsCache[anchor]; ok {
		a.mu.Unlock()
		return cached
	}
	a.mu.Unlock()

	steps := stepparser.Parse(content)
	if len(steps) > 0 {
		a.mu.Lock()
		a.algoStepsCache[anchor] = steps
		a.mu.Unlock()
	}
	return steps
}

// ValidateDoc validates every step comment in text against its scoped spec
// algorithm, using the per-document cache when version matches a prior run.
func (a *Analyzer) ValidateDoc(ctx context.Context, uri, text string, version int) []coverage.Validation {
	a.mu.Lock()
	if cached, ok := a.docValidations[uri]; ok && cached.version == version {
		a.mu.Unlock()
		return cached.value
	}
	threshold := a.fuzzyThreshold
	a.mu.Unlock()

	urlMatches := a.ScanDoc(uri, text, version)
	stepComments := scanner.ScanSteps(text)
	if len(urlMatches) == 0 || len(stepComments) == 0 {
		a.store(uri, version, nil, nil)
		return nil
	}

	scopes := scope.Build(urlMatches, stepComments)

	a.mu.Lock()
	a.docScopes[uri] = versioned[[]scope.Scope]{version: version, value: scopes}
	a.mu.Unlock()

	var validations []coverage.Validation
	for _, s := range scopes {
		if len(s.Steps) == 0 {
			continue
		}

		section, ok := a.QuerySpec(ctx, s.URL.Spec, s.URL.Anchor)
		if !ok || section.Content == "" {
			continue
		}

		algoSteps := a.getAlgoSteps(s.URL.Anchor, section.Content)
		if len(algoSteps) == 0 {
			continue
		}

		for _, step := range s.Steps {
			specStep := stepparser.Find(algoSteps, step.Number)
			if specStep == nil {
				validations = append(validations, coverage.Validation{
					Step:     step,
					Result:   matcher.NotFound,
					AlgoName: s.URL.Anchor,
				})
				continue
			}
			result := matcher.Classify(step.Text, specStep.Text, threshold)
			validations = append(validations, coverage.Validation{
				Step:     step,
				Result:   result,
				SpecText: specStep.Text,
				AlgoName: s.URL.Anchor,
			})
		}
	}

	a.mu.Lock()
	a.docValidations[uri] = versioned[[]coverage.Validation]{version: version, value: validations}
	a.mu.Unlock()
	return validations
}

func (a *Analyzer) store(uri string, version int, validations []coverage.Validation, scopes []scope.Scope) {
	a.mu.Lock()
	a.docValidations[uri] = versioned[[]coverage.Validation]{version: version, value: validations}
	a.docScopes[uri] = versioned[[]scope.Scope]{version: version, value: scopes}
	a.mu.Unlock()
}

// CoverageDoc computes per-algorithm coverage for text, reusing the scopes
// and algorithm steps cached by ValidateDoc.
func (a *Analyzer) CoverageDoc(ctx context.Context, uri, text string, version int) []DocCoverage {
	a.mu.Lock()
	if cached, ok := a.docCoverages[uri]; ok && cached.version == version {
		a.mu.Unlock()
		return cached.value
	}
	a.mu.Unlock()

	validations := a.ValidateDoc(ctx, uri, text, version)
	if len(validations) == 0 {
		a.mu.Lock()
		a.docCoverages[uri] = versioned[[]DocCoverage]{version: version}
		a.mu.Unlock()
		return nil
	}

	a.mu.Lock()
	scopesCached, ok := a.docScopes[uri]
	a.mu.Unlock()
	if !ok || scopesCached.version != version {
		a.mu.Lock()
		a.docCoverages[uri] = versioned[[]DocCoverage]{version: version}
		a.mu.Unlock()
		return nil
	}

	var results []DocCoverage
	for _, s := range scopesCached.value {
		if len(s.Steps) == 0 {
			continue
		}

		a.mu.Lock()
		algoSteps, ok := a.algoStepsCache[s.URL.Anchor]
		a.mu.Unlock()
		if !ok {
			continue
		}

		scopeLines := make(map[int]bool, len(s.Steps))
		for _, step := range s.Steps {
			scopeLines[step.Line] = true
		}
		var scopeVals []coverage.Validation
		for _, v := range validations {
			if scopeLines[v.Step.Line] {
				scopeVals = append(scopeVals, v)
			}
		}

		cov := coverage.Compute(scopeVals, algoSteps, s.URL.Anchor)
		results = append(results, DocCoverage{URL: s.URL, Result: cov})
	}

	a.mu.Lock()
	a.docCoverages[uri] = versioned[[]DocCoverage]{version: version, value: results}
	a.mu.Unlock()
	return results
}

// Forget evicts every cache entry for uri, e.g. on textDocument/didClose.
func (a *Analyzer) Forget(uri string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.docURLs, uri)
	delete(a.docValidations, uri)
	delete(a.docScopes, uri)
	delete(a.docCoverages, uri)
}
