package lsprpc

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/webspec-lens/webspec-lens/internal/analyzer"
	"github.com/webspec-lens/webspec-lens/internal/debounce"
	"github.com/webspec-lens/webspec-lens/internal/log"
	"github.com/webspec-lens/webspec-lens/internal/protocol"
	"github.com/webspec-lens/webspec-lens/internal/provider"
	"github.com/webspec-lens/webspec-lens/internal/signals"
)

// debounceDelay matches the 300ms reanalysis window: long enough to absorb
// a burst of keystrokes, short enough that diagnostics still feel live.
const debounceDelay = 300 * time.Millisecond

// openDoc tracks the last text and version seen for one open document.
type openDoc struct {
	text    string
	version int
}

// Server wires an Analyzer to the stdio JSON-RPC2 methods named in the
// spec's external-interfaces section: initialize/initialized, the
// textDocument open/change/close lifecycle, hover, inlayHint, codeLens,
// and the server-initiated publishDiagnostics notification.
type Server struct {
	conn     *Conn
	analyzer *analyzer.Analyzer
	logger   *slog.Logger
	debounce *debounce.Group

	mu   sync.Mutex
	docs map[string]*openDoc
}

// NewServer creates a Server over r/w with the given provider and fuzzy
// threshold, registering every method handler.
func NewServer(r io.Reader, w io.Writer, p provider.SpecProvider, fuzzyThreshold float64, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		conn:     NewConn(r, w, logger),
		analyzer: analyzer.New(p, fuzzyThreshold, logger),
		logger:   logger,
		debounce: debounce.NewGroup(debounceDelay),
		docs:     make(map[string]*openDoc),
	}
	s.register()
	return s
}

func (s *Server) register() {
	s.conn.Handle("initialize", s.handleInitialize)
	s.conn.HandleNotification("initialized", func(context.Context, json.RawMessage) {})
	s.conn.HandleNotification("textDocument/didOpen", s.handleDidOpen)
	s.conn.HandleNotification("textDocument/didChange", s.handleDidChange)
	s.conn.HandleNotification("textDocument/didClose", s.handleDidClose)
	s.conn.Handle("textDocument/hover", s.handleHover)
	s.conn.Handle("textDocument/inlayHint", s.handleInlayHint)
	s.conn.Handle("textDocument/codeLens", s.handleCodeLens)
}

// Run blocks serving requests until the stream closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.conn.Run(ctx)
}

func (s *Server) handleInitialize(_ context.Context, params json.RawMessage) (any, error) {
	start := time.Now()
	defer func() {
		s.logger.Debug("handled request", log.RequestFields("initialize", time.Since(start), "")...)
	}()

	var p protocol.InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, newCodeError(codeInvalidParams, "invalid initialize params: "+err.Error())
		}
	}
	if p.InitializationOptions.FuzzyThreshold != nil {
		s.analyzer.SetFuzzyThreshold(*p.InitializationOptions.FuzzyThreshold)
	}
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			HoverProvider:     true,
			InlayHintProvider: true,
			CodeLensProvider:  true,
			TextDocumentSync:  1, // full-document sync, see protocol.TextDocumentContentChangeEvent
		},
	}, nil
}

func (s *Server) setDoc(uri, text string, version int) {
	s.mu.Lock()
	s.docs[uri] = &openDoc{text: text, version: version}
	s.mu.Unlock()
}

func (s *Server) getDoc(uri string) (*openDoc, bool) {
	s.mu.Lock()
	d, ok := s.docs[uri]
	s.mu.Unlock()
	return d, ok
}

func (s *Server) handleDidOpen(ctx context.Context, params json.RawMessage) {
	start := time.Now()
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("malformed didOpen", "error", err)
		return
	}
	defer func() {
		s.logger.Debug("handled notification", log.RequestFields("textDocument/didOpen", time.Since(start), p.TextDocument.URI)...)
	}()
	s.setDoc(p.TextDocument.URI, p.TextDocument.Text, p.TextDocument.Version)
	s.publishDiagnostics(ctx, p.TextDocument.URI)
}

func (s *Server) handleDidChange(ctx context.Context, params json.RawMessage) {
	start := time.Now()
	var p protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("malformed didChange", "error", err)
		return
	}
	if len(p.ContentChanges) == 0 {
		return
	}
	text := p.ContentChanges[len(p.ContentChanges)-1].Text
	uri := p.TextDocument.URI
	s.setDoc(uri, text, p.TextDocument.Version)
	s.logger.Debug("handled notification", log.RequestFields("textDocument/didChange", time.Since(start), uri)...)

	s.debounce.Schedule(uri, func() {
		s.publishDiagnostics(ctx, uri)
	})
}

func (s *Server) handleDidClose(_ context.Context, params json.RawMessage) {
	start := time.Now()
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Warn("malformed didClose", "error", err)
		return
	}
	s.debounce.Cancel(p.TextDocument.URI)
	s.mu.Lock()
	delete(s.docs, p.TextDocument.URI)
	s.mu.Unlock()
	s.analyzer.Forget(p.TextDocument.URI)
	s.logger.Debug("handled notification", log.RequestFields("textDocument/didClose", time.Since(start), p.TextDocument.URI)...)
}

func (s *Server) publishDiagnostics(ctx context.Context, uri string) {
	doc, ok := s.getDoc(uri)
	if !ok {
		return
	}
	diags := signals.Diagnostics(ctx, s.analyzer, uri, doc.text, doc.version)
	if diags == nil {
		diags = []protocol.Diagnostic{}
	}
	if err := s.conn.Notify(ctx, "textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	}); err != nil {
		s.logger.Error("publishing diagnostics", "uri", uri, "error", err)
	}
}

func (s *Server) handleHover(ctx context.Context, params json.RawMessage) (any, error) {
	start := time.Now()
	var p protocol.HoverParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, newCodeError(codeInvalidParams, "invalid hover params: "+err.Error())
	}
	defer func() {
		s.logger.Debug("handled request", log.RequestFields("textDocument/hover", time.Since(start), p.TextDocument.URI)...)
	}()

	doc, ok := s.getDoc(p.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	hover, ok := signals.Hover(ctx, s.analyzer, p.TextDocument.URI, doc.text, doc.version, p.Position.Line, p.Position.Character)
	if !ok {
		return nil, nil
	}
	return hover, nil
}

func (s *Server) handleInlayHint(ctx context.Context, params json.RawMessage) (any, error) {
	start := time.Now()
	var p protocol.InlayHintParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, newCodeError(codeInvalidParams, "invalid inlayHint params: "+err.Error())
	}
	defer func() {
		s.logger.Debug("handled request", log.RequestFields("textDocument/inlayHint", time.Since(start), p.TextDocument.URI)...)
	}()

	doc, ok := s.getDoc(p.TextDocument.URI)
	if !ok {
		return []protocol.InlayHint{}, nil
	}
	hints := signals.InlayHints(ctx, s.analyzer, p.TextDocument.URI, doc.text, doc.version, p.Range.Start.Line, p.Range.End.Line)
	if hints == nil {
		hints = []protocol.InlayHint{}
	}
	return hints, nil
}

func (s *Server) handleCodeLens(ctx context.Context, params json.RawMessage) (any, error) {
	start := time.Now()
	var p protocol.CodeLensParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, newCodeError(codeInvalidParams, "invalid codeLens params: "+err.Error())
	}
	defer func() {
		s.logger.Debug("handled request", log.RequestFields("textDocument/codeLens", time.Since(start), p.TextDocument.URI)...)
	}()

	doc, ok := s.getDoc(p.TextDocument.URI)
	if !ok {
		return []protocol.CodeLens{}, nil
	}
	lenses := signals.CodeLenses(ctx, s.analyzer, p.TextDocument.URI, doc.text, doc.version)
	if lenses == nil {
		lenses = []protocol.CodeLens{}
	}
	return lenses, nil
}
