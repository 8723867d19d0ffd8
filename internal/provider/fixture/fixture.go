// Package fixture provides an in-memory SpecProvider for tests.
package fixture

import (
	"context"
	"sync"

	"github.com/webspec-lens/webspec-lens/internal/provider"
	"github.com/webspec-lens/webspec-lens/internal/scanner"
)

// Provider is a deterministic, in-memory provider.SpecProvider backed by a
// fixed set of sections and spec URLs.
type Provider struct {
	mu       sync.RWMutex
	urls     []scanner.SpecRef
	sections map[string]provider.Section
}

// New creates a Provider with the given known spec URLs.
func New(urls []scanner.SpecRef) *Provider {
	return &Provider{
		urls:     urls,
		sections: make(map[string]provider.Section),
	}
}

// Put registers a section so later Query calls can resolve it.
func (p *Provider) Put(section provider.Section) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sections[key(section.Spec, section.Anchor)] = section
}

// Query implements provider.SpecProvider.
func (p *Provider) Query(_ context.Context, spec, anchor string) (provider.Section, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sections[key(spec, anchor)]
	return s, ok, nil
}

// SpecURLs implements provider.SpecProvider.
func (p *Provider) SpecURLs() []scanner.SpecRef {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]scanner.SpecRef(nil), p.urls...)
}

func key(spec, anchor string) string {
	return spec + "#" + anchor
}
