// Package mcp implements a minimal Model Context Protocol server over
// line-delimited JSON-RPC 2.0 on stdin/stdout. Tools are registered in
// a static table at startup; clients discover them through tools/list
// and invoke them through tools/call. Requests are handled one at a
// time, in order, and a failing request never stops the loop.
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
	"strings"

	"github.com/oklog/ulid/v2"
)

// Logger is injected by the main package
var Logger *slog.Logger

// Handler executes one tool call. Arguments arrive as raw JSON; the
// handler owns decoding and validation.
type Handler func(ctx context.Context, args json.RawMessage) (*ToolResult, error)

// Tool describes one operation the server advertises
type Tool struct {
	Name        string
	Description string
	InputSchema *Schema
	Handler     Handler
}

// Server dispatches JSON-RPC requests to registered tools
type Server struct {
	info  serverInfo
	tools map[string]Tool
	order []string // registration order, for stable tools/list output
}

// NewServer creates a server advertising the given name and version
func NewServer(name, version string) *Server {
	return &Server{
		info:  serverInfo{Name: name, Version: version},
		tools: make(map[string]Tool),
	}
}

// RegisterTool adds a tool to the dispatch table. Registering the same
// name twice replaces the earlier definition.
func (s *Server) RegisterTool(tool Tool) {
	if _, exists := s.tools[tool.Name]; !exists {
		s.order = append(s.order, tool.Name)
	}
	s.tools[tool.Name] = tool
}

// Run reads newline-delimited requests from in until EOF, writing one
// response line per request to out. Requests are fully resolved before
// the next line is read.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	// Allow for large embedded payloads in requests
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		requestID := ulid.Make().String()

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			Logger.Warn("Failed to parse request", "requestID", requestID, "error", err)
			if err := writeResponse(out, response{
				JSONRPC: "2.0",
				ID:      json.RawMessage("null"),
				Error:   &rpcError{Code: codeParseError, Message: "Parse error"},
			}); err != nil {
				return err
			}
			continue
		}

		// Notifications carry no id and expect no reply
		if strings.HasPrefix(req.Method, "notifications/") {
			Logger.Debug("Notification received", "requestID", requestID, "method", req.Method)
			continue
		}

		resp := s.dispatch(ctx, req, requestID)
		if err := writeResponse(out, resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Server) dispatch(ctx context.Context, req request, requestID string) response {
	resp := response{JSONRPC: "2.0", ID: req.ID}
	if resp.ID == nil {
		resp.ID = json.RawMessage("null")
	}

	Logger.Debug("Dispatching request", "requestID", requestID, "method", req.Method)

	switch req.Method {
	case "initialize":
		resp.Result = initializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      s.info,
		}
	case "tools/list":
		tools := make([]toolInfo, 0, len(s.order))
		for _, name := range s.order {
			tool := s.tools[name]
			tools = append(tools, toolInfo{
				Name:        tool.Name,
				Description: tool.Description,
				InputSchema: tool.InputSchema,
			})
		}
		resp.Result = listToolsResult{Tools: tools}
	case "tools/call":
		resp.Result = s.callTool(ctx, req.Params, requestID)
	default:
		Logger.Warn("Unknown method", "requestID", requestID, "method", req.Method)
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("Unknown method: %s", req.Method)}
	}
	return resp
}

// callTool resolves one tools/call request. Tool failures come back as
// structured results so the caller can correct its input and retry.
func (s *Server) callTool(ctx context.Context, params json.RawMessage, requestID string) (result any) {
	var call callToolParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &call); err != nil {
			return failure("invalid_params", fmt.Sprintf("malformed tools/call params: %v", err))
		}
	}

	tool, ok := s.tools[call.Name]
	if !ok {
		Logger.Warn("Unknown tool requested", "requestID", requestID, "tool", call.Name)
		return failure("unknown_tool", fmt.Sprintf("Unknown tool: %s", call.Name))
	}

	// One bad request must never take the process down
	defer func() {
		if r := recover(); r != nil {
			Logger.Error("Tool handler panicked", "requestID", requestID, "tool", call.Name, "panic", r)
			result = failure("internal_error", fmt.Sprintf("internal error in tool %s", call.Name))
		}
	}()

	toolResult, err := tool.Handler(ctx, call.Arguments)
	if err != nil {
		code := "internal_error"
		var coder ErrorCoder
		if errors.As(err, &coder) {
			code = coder.ErrorCode()
		}
		Logger.Warn("Tool call failed", "requestID", requestID, "tool", call.Name, "code", code, "error", err)
		return failure(code, err.Error())
	}

	Logger.Info("Tool call succeeded", "requestID", requestID, "tool", call.Name)
	return toolResult
}

func failure(code, message string) toolFailure {
	return toolFailure{Error: toolFailureBody{Code: code, Message: message}}
}

func writeResponse(out io.Writer, resp response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("unable to marshal response: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := out.Write(payload); err != nil {
		return fmt.Errorf("unable to write response: %w", err)
	}
	return nil
}
