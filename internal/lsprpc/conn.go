// Package lsprpc implements a minimal stdio JSON-RPC2 transport for serving
// LSP requests and notifications, framed the way editors expect
// (Content-Length-delimited, see frame.go).
package lsprpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// RequestHandler answers a call and returns its result, or an error to be
// reported back to the caller.
type RequestHandler func(ctx context.Context, params json.RawMessage) (any, error)

// NotificationHandler reacts to a notification; it has no response to send.
type NotificationHandler func(ctx context.Context, params json.RawMessage)

// Conn is a single stdio JSON-RPC2 connection. It is not safe for
// concurrent calls to Run, but outgoing Notify calls may run concurrently
// with an active Run loop.
type Conn struct {
	id     string
	logger *slog.Logger
	reader *frameReader
	writer *frameWriter

	mu            sync.RWMutex
	requests      map[string]RequestHandler
	notifications map[string]NotificationHandler
}

// NewConn wires a connection around r (incoming frames) and w (outgoing
// frames). Every log line is tagged with a per-connection id so that
// multiple connections sharing a log stream can be told apart.
func NewConn(r io.Reader, w io.Writer, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Conn{
		id:            id,
		logger:        logger.With("conn", id),
		reader:        newFrameReader(r),
		writer:        newFrameWriter(w),
		requests:      make(map[string]RequestHandler),
		notifications: make(map[string]NotificationHandler),
	}
}

// Handle registers h to answer calls to method.
func (c *Conn) Handle(method string, h RequestHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests[method] = h
}

// HandleNotification registers h to react to notifications of method.
func (c *Conn) HandleNotification(method string, h NotificationHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications[method] = h
}

// Notify sends a server-initiated notification, e.g. publishDiagnostics.
func (c *Conn) Notify(ctx context.Context, method string, params any) error {
	body, err := encodeNotification(method, params)
	if err != nil {
		return fmt.Errorf("encoding notification %s: %w", method, err)
	}
	c.logger.Debug("send notification", "method", method)
	return c.writer.write(body)
}

// Run reads frames until the stream closes or ctx is cancelled, dispatching
// each to its registered handler. Requests are answered synchronously, one
// at a time, matching editors' expectation of in-order responses for a
// single-threaded language server.
func (c *Conn) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		body, err := c.reader.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading frame: %w", err)
		}

		env, err := decodeEnvelope(body)
		if err != nil {
			c.logger.Warn("malformed frame", "error", err)
			continue
		}

		c.dispatch(ctx, env)
	}
}

func (c *Conn) dispatch(ctx context.Context, env *envelope) {
	if env.Method == "" {
		// A bare response to a call we never made (this server never calls
		// out to the client); ignore.
		return
	}

	req := &request{ID: env.ID, Method: env.Method, Params: env.Params}

	if req.isNotify() {
		c.mu.RLock()
		h, ok := c.notifications[req.Method]
		c.mu.RUnlock()
		if !ok {
			c.logger.Debug("no handler for notification", "method", req.Method)
			return
		}
		c.logger.Debug("handle notification", "method", req.Method)
		h(ctx, req.Params)
		return
	}

	c.mu.RLock()
	h, ok := c.requests[req.Method]
	c.mu.RUnlock()

	var result any
	var herr error
	if !ok {
		herr = newCodeError(codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	} else {
		c.logger.Debug("handle request", "method", req.Method)
		result, herr = h(ctx, req.Params)
	}

	data, err := encodeResponse(req.ID, result, herr)
	if err != nil {
		c.logger.Error("encoding response", "method", req.Method, "error", err)
		return
	}
	if err := c.writer.write(data); err != nil {
		c.logger.Error("writing response", "method", req.Method, "error", err)
	}
}
