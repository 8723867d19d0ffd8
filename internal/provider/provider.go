// Package provider defines the interface the analyzer uses to resolve spec
// sections and known spec base URLs, decoupling it from any one backing
// store.
package provider

import (
	"context"

	"github.com/webspec-lens/webspec-lens/internal/scanner"
)

// Section is one queried spec section: an algorithm, a definition, or any
// other anchor a spec URL can point to.
type Section struct {
	Title   string
	Type    string
	Content string
	Spec    string
	Anchor  string
}

// SpecProvider resolves "SPEC#anchor" references to section content and
// reports the set of specs it knows the base URLs for.
type SpecProvider interface {
	// Query looks up a section by its spec name and anchor. It returns
	// (Section{}, false, nil) when the anchor is not known, and a non-nil
	// error only for transport/backing-store failures.
	Query(ctx context.Context, spec, anchor string) (Section, bool, error)

	// SpecURLs returns the known specs and their canonical base URLs.
	SpecURLs() []scanner.SpecRef
}
