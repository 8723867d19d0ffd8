// Package signals renders analyzer results as LSP-facing signals: hover
// content, diagnostics, inlay hints, and code lenses.
package signals

import (
	"context"
	"fmt"
	"strings"

	"github.com/webspec-lens/webspec-lens/internal/analyzer"
	"github.com/webspec-lens/webspec-lens/internal/matcher"
	"github.com/webspec-lens/webspec-lens/internal/protocol"
	"github.com/webspec-lens/webspec-lens/internal/scanner"
)

// BuildHoverContent formats a queried spec section as markdown for a hover
// tooltip.
func BuildHoverContent(title, sectionType, content, spec, anchor string) string {
	var parts []string

	heading := title
	if heading == "" {
		heading = anchor
	}
	if heading != "" {
		parts = append(parts, "## "+heading)
	}

	if sectionType != "" {
		parts = append(parts, fmt.Sprintf("*%s* | %s#%s", sectionType, spec, anchor))
	}

	if content != "" {
		parts = append(parts, content)
	}

	return strings.Join(parts, "\n\n")
}

func stepLabel(number []int) string {
	parts := make([]string, len(number))
	for i, n := range number {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ".")
}

// Hover produces a hover response for the given cursor position, checking
// spec URL citations before step comments. It returns a zero Hover and false
// when nothing hoverable is at the position.
func Hover(ctx context.Context, a *analyzer.Analyzer, uri, text string, version, line, character int) (protocol.Hover, bool) {
	matches := a.ScanDoc(uri, text, version)
	if match, ok := scanner.FindURLAt(matches, line, character); ok {
		section, ok := a.QuerySpec(ctx, match.Spec, match.Anchor)
		if ok {
			markdown := BuildHoverContent(section.Title, section.Type, section.Content, section.Spec, section.Anchor)
			return protocol.Hover{
				Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: markdown},
				Range: &protocol.Range{
					Start: protocol.Position{Line: match.Line, Character: match.ColStart},
					End:   protocol.Position{Line: match.Line, Character: match.ColEnd},
				},
			}, true
		}
	}

	validations := a.ValidateDoc(ctx, uri, text, version)
	for _, v := range validations {
		if v.Step.Line != line {
			continue
		}
		if character < v.Step.ColStart || character > v.Step.ColEnd {
			continue
		}

		label := stepLabel(v.Step.Number)
		var md string
		switch v.Result {
		case matcher.Exact:
			md = fmt.Sprintf("**Step %s** — exact match", label)
		case matcher.Fuzzy:
			md = fmt.Sprintf("**Step %s** — fuzzy match", label)
			if v.SpecText != "" {
				md += fmt.Sprintf("\n\n**Spec:** %s", v.SpecText)
			}
		case matcher.NotFound:
			md = fmt.Sprintf("**Step %s** — not found in `%s`", label, v.AlgoName)
		default: // Mismatch
			md = fmt.Sprintf("**Step %s** — text differs from spec", label)
			if v.SpecText != "" {
				md += fmt.Sprintf("\n\n**Expected:** %s", v.SpecText)
			}
		}

		return protocol.Hover{
			Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: md},
			Range: &protocol.Range{
				Start: protocol.Position{Line: v.Step.Line, Character: v.Step.ColStart},
				End:   protocol.Position{Line: v.Step.End(), Character: v.Step.ColEnd},
			},
		}, true
	}

	return protocol.Hover{}, false
}

// Diagnostics publishes a warning for every step whose validation is not
// EXACT or FUZZY.
func Diagnostics(ctx context.Context, a *analyzer.Analyzer, uri, text string, version int) []protocol.Diagnostic {
	validations := a.ValidateDoc(ctx, uri, text, version)
	var diags []protocol.Diagnostic

	for _, v := range validations {
		if v.Result == matcher.Exact || v.Result == matcher.Fuzzy {
			continue
		}

		label := stepLabel(v.Step.Number)
		var msg string
		if v.Result == matcher.NotFound {
			msg = fmt.Sprintf("Step %s: not found in algorithm '%s'", label, v.AlgoName)
		} else {
			msg = fmt.Sprintf("Step %s: text differs from spec", label)
		}

		rng := protocol.Range{
			Start: protocol.Position{Line: v.Step.Line, Character: v.Step.ColStart},
			End:   protocol.Position{Line: v.Step.End(), Character: v.Step.ColEnd},
		}

		diag := protocol.Diagnostic{
			Range:    rng,
			Severity: protocol.SeverityWarning,
			Source:   "webspec-lens",
			Message:  msg,
		}
		if v.SpecText != "" {
			diag.RelatedInformation = []protocol.DiagnosticRelatedInformation{{
				Location: protocol.Location{URI: uri, Range: rng},
				Message:  "Expected: " + v.SpecText,
			}}
		}
		diags = append(diags, diag)
	}

	return diags
}

// InlayHints produces one inlay hint per validated step comment within
// [rangeStart, rangeEnd] (inclusive line bounds).
func InlayHints(ctx context.Context, a *analyzer.Analyzer, uri, text string, version, rangeStart, rangeEnd int) []protocol.InlayHint {
	validations := a.ValidateDoc(ctx, uri, text, version)
	if len(validations) == 0 {
		return nil
	}

	var hints []protocol.InlayHint
	for _, v := range validations {
		if v.Step.Line < rangeStart || v.Step.Line > rangeEnd {
			continue
		}

		label := stepLabel(v.Step.Number)
		var hintLabel string
		var kind protocol.InlayHintKind
		var tooltip *protocol.MarkupContent

		switch v.Result {
		case matcher.Exact:
			hintLabel = " ✓"
			kind = protocol.InlayHintKindType
			tooltip = &protocol.MarkupContent{Kind: protocol.Markdown, Value: fmt.Sprintf("**Step %s** — exact match", label)}
		case matcher.Fuzzy:
			hintLabel = " ✓"
			kind = protocol.InlayHintKindType
			if v.SpecText != "" {
				tooltip = &protocol.MarkupContent{
					Kind:  protocol.Markdown,
					Value: fmt.Sprintf("**Step %s** — fuzzy match\n\n**Spec:** %s", label, v.SpecText),
				}
			}
		case matcher.NotFound:
			hintLabel = " ⚠"
			kind = protocol.InlayHintKindParameter
			tooltip = &protocol.MarkupContent{
				Kind:  protocol.Markdown,
				Value: fmt.Sprintf("**Step %s** — not found in `%s`", label, v.AlgoName),
			}
		default: // Mismatch
			hintLabel = " ⚠"
			kind = protocol.InlayHintKindParameter
			md := fmt.Sprintf("**Step %s** — text differs from spec", label)
			if v.SpecText != "" {
				md += fmt.Sprintf("\n\n**Expected:** %s", v.SpecText)
			}
			tooltip = &protocol.MarkupContent{Kind: protocol.Markdown, Value: md}
		}

		hints = append(hints, protocol.InlayHint{
			Position:    protocol.Position{Line: v.Step.End(), Character: v.Step.ColEnd},
			Label:       hintLabel,
			Kind:        kind,
			Tooltip:     tooltip,
			PaddingLeft: true,
		})
	}

	return hints
}

// CodeLenses produces one code lens per algorithm scope, showing its
// coverage summary.
func CodeLenses(ctx context.Context, a *analyzer.Analyzer, uri, text string, version int) []protocol.CodeLens {
	coverages := a.CoverageDoc(ctx, uri, text, version)
	if len(coverages) == 0 {
		return nil
	}

	lenses := make([]protocol.CodeLens, 0, len(coverages))
	for _, dc := range coverages {
		missingLabels := make([]any, 0, len(dc.Result.Missing))
		for _, m := range dc.Result.Missing {
			missingLabels = append(missingLabels, stepLabel(m))
		}

		lenses = append(lenses, protocol.CodeLens{
			Range: protocol.Range{
				Start: protocol.Position{Line: dc.URL.Line, Character: 0},
				End:   protocol.Position{Line: dc.URL.Line, Character: 0},
			},
			Command: &protocol.Command{
				Title:   dc.Result.Summary(),
				Command: "webspecLens.showCoverage",
				Arguments: []any{
					dc.Result.Anchor,
					dc.Result.TotalSteps,
					missingLabels,
				},
			},
		})
	}
	return lenses
}
