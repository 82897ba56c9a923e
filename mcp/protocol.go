package mcp

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// protocolVersion is the MCP revision this server speaks
const protocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInternalError  = -32603
)

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    capabilities `json:"capabilities"`
	ServerInfo      serverInfo   `json:"serverInfo"`
}

type capabilities struct {
	Tools struct{} `json:"tools"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type toolInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	InputSchema *Schema `json:"inputSchema"`
}

type listToolsResult struct {
	Tools []toolInfo `json:"tools"`
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// toolFailure is the structured error payload returned as a tools/call
// result when the tool itself fails. The request was well-formed, so
// this is not a JSON-RPC level error.
type toolFailure struct {
	Error toolFailureBody `json:"error"`
}

type toolFailureBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Content is one part of a tool result: text or an inline image
type Content struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// TextContent builds a text content part
func TextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// ImageContent builds an inline image content part, base64-encoded
func ImageContent(data []byte, mimeType string) Content {
	return Content{
		Type:     "image",
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}
}

// ToolResult is the successful payload of a tools/call
type ToolResult struct {
	Content []Content `json:"content"`
}

// Schema is the subset of JSON Schema used to declare tool parameters
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Default     any                `json:"default,omitempty"`
}

// ErrorCoder lets domain errors declare a stable wire code. Errors
// without one are reported as internal_error.
type ErrorCoder interface {
	ErrorCode() string
}

// InvalidParamsError reports tool arguments that fail validation
// before the tool logic runs
type InvalidParamsError struct {
	Message string
}

func (e *InvalidParamsError) Error() string { return e.Message }

func (e *InvalidParamsError) ErrorCode() string { return "invalid_params" }

// InvalidParamsf builds an InvalidParamsError from a format string
func InvalidParamsf(format string, args ...any) *InvalidParamsError {
	return &InvalidParamsError{Message: fmt.Sprintf(format, args...)}
}
