// Package protocol defines the minimal subset of Language Server Protocol
// wire types needed to serve hover, diagnostics, inlay hints, and code
// lenses over JSON-RPC.
package protocol

// Position is a zero-based line/character offset, matching LSP's UTF-16
// code unit convention (source text here is treated as ASCII-safe, so byte
// offsets double as UTF-16 offsets).
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open [Start, End) span within a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// MarkupKind identifies the markup format of hover/documentation content.
type MarkupKind string

const (
	PlainText MarkupKind = "plaintext"
	Markdown  MarkupKind = "markdown"
)

// MarkupContent is a string value with an associated rendering kind.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// Hover is the result of a textDocument/hover request.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// DiagnosticSeverity ranks the severity of a published diagnostic.
type DiagnosticSeverity int

const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

// Location identifies a range within a specific document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// DiagnosticRelatedInformation attaches supplementary context — such as the
// spec text a step comment was expected to match — to a diagnostic.
type DiagnosticRelatedInformation struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

// Diagnostic is one problem reported against a range of a document.
type Diagnostic struct {
	Range              Range                          `json:"range"`
	Severity           DiagnosticSeverity             `json:"severity,omitempty"`
	Source             string                         `json:"source,omitempty"`
	Message            string                         `json:"message"`
	RelatedInformation []DiagnosticRelatedInformation `json:"relatedInformation,omitempty"`
}

// PublishDiagnosticsParams is the payload of a textDocument/publishDiagnostics
// notification.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// InlayHintKind distinguishes the semantic role of an inlay hint.
type InlayHintKind int

const (
	InlayHintKindType      InlayHintKind = 1
	InlayHintKindParameter InlayHintKind = 2
)

// InlayHint is a short inline annotation rendered after a position.
type InlayHint struct {
	Position    Position       `json:"position"`
	Label       string         `json:"label"`
	Kind        InlayHintKind  `json:"kind,omitempty"`
	Tooltip     *MarkupContent `json:"tooltip,omitempty"`
	PaddingLeft bool           `json:"paddingLeft,omitempty"`
}

// Command identifies a client-executable command attached to a code lens.
type Command struct {
	Title     string `json:"title"`
	Command   string `json:"command"`
	Arguments []any  `json:"arguments,omitempty"`
}

// CodeLens is an actionable annotation rendered above a range.
type CodeLens struct {
	Range   Range    `json:"range"`
	Command *Command `json:"command,omitempty"`
}

// TextDocumentIdentifier identifies an open document by URI.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// TextDocumentPositionParams pairs a document with a cursor position within it.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// HoverParams is the payload of a textDocument/hover request.
type HoverParams struct {
	TextDocumentPositionParams
}

// InlayHintParams is the payload of a textDocument/inlayHint request.
type InlayHintParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
}

// CodeLensParams is the payload of a textDocument/codeLens request.
type CodeLensParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// TextDocumentItem is the full content of a document as sent on open.
type TextDocumentItem struct {
	URI     string `json:"uri"`
	Text    string `json:"text"`
	Version int    `json:"version"`
}

// DidOpenTextDocumentParams is the payload of textDocument/didOpen.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// VersionedTextDocumentIdentifier identifies a document at a specific
// version, used to key caches invalidated on edit.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// TextDocumentContentChangeEvent describes a full-text document update. Only
// whole-document sync is supported — no incremental range edits.
type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

// DidChangeTextDocumentParams is the payload of textDocument/didChange.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier   `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// DidCloseTextDocumentParams is the payload of textDocument/didClose.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// InitializeParams is the payload of the initialize request.
type InitializeParams struct {
	InitializationOptions InitializationOptions `json:"initializationOptions"`
}

// InitializationOptions carries server-specific startup configuration.
type InitializationOptions struct {
	FuzzyThreshold *float64 `json:"fuzzyThreshold,omitempty"`
}

// InitializeResult is the payload of the initialize response.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

// ServerCapabilities advertises the features this server implements.
type ServerCapabilities struct {
	HoverProvider         bool `json:"hoverProvider"`
	InlayHintProvider     bool `json:"inlayHintProvider"`
	CodeLensProvider      bool `json:"codeLensProvider"`
	TextDocumentSync      int  `json:"textDocumentSync"`
}
