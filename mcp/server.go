package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/dtdocs"
)

// ServerName and ServerVersion identify this implementation in the
// initialize handshake.
const (
	ServerName    = "dtdocs"
	ServerVersion = "0.1.0"
)

// handlerFunc handles one request method. Handlers return a result value or
// an error; only the dispatcher converts either into a protocol envelope.
type handlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

// Server dispatches MCP requests to handlers, owning the session lifecycle.
//
// The session starts awaiting the initialization handshake. The
// notifications/initialized notification, and nothing else, moves it to
// ready; the transition happens at most once and never reverts. Until then
// every request except initialize is rejected with errCodeNotInitialized.
//
// All dispatch happens on the goroutine that calls Serve, so the lifecycle
// flag needs no locking. A Server instance is valid for one session.
type Server struct {
	search dtdocs.SearchService
	logger *slog.Logger

	initialized bool

	handlers     map[string]handlerFunc
	tools        []Tool
	toolHandlers map[string]toolFunc
}

// NewServer creates a Server answering queries from the given search service.
// The logger must not write to the protocol output stream.
func NewServer(search dtdocs.SearchService, logger *slog.Logger) *Server {
	s := &Server{
		search: search,
		logger: logger,
	}

	s.handlers = map[string]handlerFunc{
		methodInitialize: s.handleInitialize,
		"tools/list":     s.handleToolsList,
		"tools/call":     s.handleToolsCall,
		"resources/list": s.handleResourcesList,
		"prompts/list":   s.handlePromptsList,
	}

	s.registerTools()

	return s
}

// Serve reads one envelope per line from r and writes one response per
// request to w until the stream ends. A malformed line or a failing handler
// never ends the loop; only a stream-level read error does.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Error("parse error", "error", err)
			if err := s.write(w, errResponse(nil, errCodeParse, "Parse error")); err != nil {
				return err
			}
			continue
		}

		resp := s.dispatch(ctx, &req)
		if resp == nil {
			continue
		}
		if err := s.write(w, resp); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// dispatch routes one decoded envelope. Returns nil for notifications,
// which never produce output.
func (s *Server) dispatch(ctx context.Context, req *request) *response {
	if req.isNotification() {
		s.handleNotification(req)
		return nil
	}

	// Lifecycle check precedes method lookup and is keyed by method name.
	if !s.initialized && req.Method != methodInitialize {
		s.logger.Warn("request before initialization", "method", req.Method)
		return errResponse(req.ID, errCodeNotInitialized, "Server not initialized. Send initialize request first.")
	}

	handler, ok := s.handlers[req.Method]
	if !ok {
		s.logger.Warn("unknown method", "method", req.Method)
		return errResponse(req.ID, errCodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}

	result, err := handler(ctx, req.Params)
	if err != nil {
		s.logger.Error("handler failed", "method", req.Method, "error", err)
		return errResponse(req.ID, errCodeInternal, failureMessage(err))
	}

	return okResponse(req.ID, result)
}

// handleNotification processes a message with no id. Only the
// initialization-complete notification mutates state; everything else is
// logged and dropped.
func (s *Server) handleNotification(req *request) {
	if req.Method != methodInitialized {
		s.logger.Debug("ignoring notification", "method", req.Method)
		return
	}
	if s.initialized {
		s.logger.Debug("session already initialized")
		return
	}
	s.initialized = true
	s.logger.Info("session initialized")
}

// write marshals a response and emits it as a single line. The underlying
// writer is unbuffered (or flushed by the caller's io.Writer contract), so a
// line-buffered peer observes each response promptly.
func (s *Server) write(w io.Writer, resp *response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// failureMessage derives the protocol error message from a handler failure.
func failureMessage(err error) string {
	var e *dtdocs.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func (s *Server) handleInitialize(_ context.Context, params json.RawMessage) (any, error) {
	var p initializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, dtdocs.Errorf(dtdocs.EINVALID, "invalid initialize params: %v", err)
		}
	}

	s.logger.Info("initialize", "client", p.ClientInfo.Name, "clientVersion", p.ClientInfo.Version)

	return initializeResult{
		ProtocolVersion: protocolVersion,
		ServerInfo:      serverInfo{Name: ServerName, Version: ServerVersion},
	}, nil
}

func (s *Server) handleToolsList(context.Context, json.RawMessage) (any, error) {
	return toolsListResult{Tools: s.tools}, nil
}

func (s *Server) handleToolsCall(ctx context.Context, params json.RawMessage) (any, error) {
	var p toolCallParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, dtdocs.Errorf(dtdocs.EINVALID, "invalid tools/call params: %v", err)
	}

	handler, ok := s.toolHandlers[p.Name]
	if !ok {
		return nil, dtdocs.Errorf(dtdocs.ENOTFOUND, "Unknown tool: %s", p.Name)
	}

	text, err := handler(ctx, p.Arguments)
	if err != nil {
		return nil, err
	}

	return textResult(text), nil
}

func (s *Server) handleResourcesList(context.Context, json.RawMessage) (any, error) {
	return resourcesListResult{Resources: []any{}}, nil
}

func (s *Server) handlePromptsList(context.Context, json.RawMessage) (any, error) {
	return promptsListResult{Prompts: []any{}}, nil
}
