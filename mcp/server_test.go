package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type codedError struct{ code, msg string }

func (e *codedError) Error() string     { return e.msg }
func (e *codedError) ErrorCode() string { return e.code }

func newTestServer(handler Handler) *Server {
	server := NewServer("test-server", "0.0.1")
	server.RegisterTool(Tool{
		Name:        "echo",
		Description: "Echo a message back",
		InputSchema: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"message": {Type: "string", Description: "Message to echo"},
			},
			Required: []string{"message"},
		},
		Handler: handler,
	})
	return server
}

func echoHandler(_ context.Context, args json.RawMessage) (*ToolResult, error) {
	var params struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, InvalidParamsf("bad arguments: %v", err)
	}
	return &ToolResult{Content: []Content{TextContent(params.Message)}}, nil
}

// run feeds newline-delimited requests through the server and returns
// one decoded response per line of output
func run(t *testing.T, server *Server, input string) []map[string]any {
	t.Helper()
	var out bytes.Buffer
	if err := server.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	var responses []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp map[string]any
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("Response line is not valid JSON: %q: %v", line, err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestInitialize(t *testing.T) {
	server := newTestServer(echoHandler)
	responses := run(t, server, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`+"\n")

	if len(responses) != 1 {
		t.Fatalf("Expected 1 response, got %d", len(responses))
	}
	result, ok := responses[0]["result"].(map[string]any)
	if !ok {
		t.Fatalf("Expected result object, got %v", responses[0])
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("Unexpected protocol version: %v", result["protocolVersion"])
	}
	info, _ := result["serverInfo"].(map[string]any)
	if info["name"] != "test-server" || info["version"] != "0.0.1" {
		t.Errorf("Unexpected serverInfo: %v", info)
	}
	if responses[0]["id"] != float64(1) {
		t.Errorf("Response id should echo request id, got %v", responses[0]["id"])
	}
}

func TestListTools_DeclaresSchema(t *testing.T) {
	server := newTestServer(echoHandler)
	responses := run(t, server, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`+"\n")

	result := responses[0]["result"].(map[string]any)
	tools := result["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("Expected 1 tool, got %d", len(tools))
	}
	tool := tools[0].(map[string]any)
	if tool["name"] != "echo" {
		t.Errorf("Unexpected tool name: %v", tool["name"])
	}
	if tool["description"] == "" {
		t.Error("Tool description should not be empty")
	}
	schema := tool["inputSchema"].(map[string]any)
	if schema["type"] != "object" {
		t.Errorf("Expected object schema, got %v", schema["type"])
	}
	props := schema["properties"].(map[string]any)
	if _, ok := props["message"]; !ok {
		t.Error("Schema should declare the message property")
	}
	required := schema["required"].([]any)
	if len(required) != 1 || required[0] != "message" {
		t.Errorf("Unexpected required list: %v", required)
	}
}

func TestCallTool_Success(t *testing.T) {
	server := newTestServer(echoHandler)
	responses := run(t, server,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hello"}}}`+"\n")

	result := responses[0]["result"].(map[string]any)
	content := result["content"].([]any)
	part := content[0].(map[string]any)
	if part["type"] != "text" || part["text"] != "hello" {
		t.Errorf("Unexpected content: %v", part)
	}
}

func TestCallTool_UnknownTool(t *testing.T) {
	server := newTestServer(echoHandler)
	responses := run(t, server,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"nope","arguments":{}}}`+"\n")

	result := responses[0]["result"].(map[string]any)
	failure := result["error"].(map[string]any)
	if failure["code"] != "unknown_tool" {
		t.Errorf("Expected unknown_tool, got %v", failure["code"])
	}
}

func TestCallTool_ErrorCodeMapping(t *testing.T) {
	server := newTestServer(func(context.Context, json.RawMessage) (*ToolResult, error) {
		return nil, &codedError{code: "page_out_of_range", msg: "page 9 out of range"}
	})
	responses := run(t, server,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"echo","arguments":{}}}`+"\n")

	result := responses[0]["result"].(map[string]any)
	failure := result["error"].(map[string]any)
	if failure["code"] != "page_out_of_range" {
		t.Errorf("Expected mapped error code, got %v", failure["code"])
	}
	if !strings.Contains(failure["message"].(string), "page 9") {
		t.Errorf("Expected offending parameter in message, got %v", failure["message"])
	}
}

func TestCallTool_UncodedErrorIsInternal(t *testing.T) {
	server := newTestServer(func(context.Context, json.RawMessage) (*ToolResult, error) {
		return nil, errors.New("boom")
	})
	responses := run(t, server,
		`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"echo","arguments":{}}}`+"\n")

	result := responses[0]["result"].(map[string]any)
	failure := result["error"].(map[string]any)
	if failure["code"] != "internal_error" {
		t.Errorf("Expected internal_error, got %v", failure["code"])
	}
}

func TestParseError_DoesNotStopLoop(t *testing.T) {
	server := newTestServer(echoHandler)
	input := "this is not json\n" +
		`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"echo","arguments":{"message":"still alive"}}}` + "\n"
	responses := run(t, server, input)

	if len(responses) != 2 {
		t.Fatalf("Expected 2 responses, got %d", len(responses))
	}
	rpcErr := responses[0]["error"].(map[string]any)
	if rpcErr["code"] != float64(-32700) {
		t.Errorf("Expected -32700 parse error, got %v", rpcErr["code"])
	}
	result := responses[1]["result"].(map[string]any)
	content := result["content"].([]any)
	if content[0].(map[string]any)["text"] != "still alive" {
		t.Error("Server should keep serving after a parse error")
	}
}

func TestUnknownMethod(t *testing.T) {
	server := newTestServer(echoHandler)
	responses := run(t, server, `{"jsonrpc":"2.0","id":8,"method":"resources/list"}`+"\n")

	rpcErr := responses[0]["error"].(map[string]any)
	if rpcErr["code"] != float64(-32601) {
		t.Errorf("Expected -32601, got %v", rpcErr["code"])
	}
}

func TestNotificationsGetNoResponse(t *testing.T) {
	server := newTestServer(echoHandler)
	input := `{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n" +
		`{"jsonrpc":"2.0","id":9,"method":"tools/list"}` + "\n"
	responses := run(t, server, input)

	if len(responses) != 1 {
		t.Fatalf("Notifications must not be answered; got %d responses", len(responses))
	}
	if responses[0]["id"] != float64(9) {
		t.Errorf("Expected response to the list request, got %v", responses[0]["id"])
	}
}

func TestPanickingHandlerIsRecovered(t *testing.T) {
	server := newTestServer(func(context.Context, json.RawMessage) (*ToolResult, error) {
		panic("nil pointer somewhere")
	})
	input := `{"jsonrpc":"2.0","id":10,"method":"tools/call","params":{"name":"echo","arguments":{}}}` + "\n" +
		`{"jsonrpc":"2.0","id":11,"method":"tools/list"}` + "\n"
	responses := run(t, server, input)

	if len(responses) != 2 {
		t.Fatalf("Expected 2 responses, got %d", len(responses))
	}
	result := responses[0]["result"].(map[string]any)
	failure := result["error"].(map[string]any)
	if failure["code"] != "internal_error" {
		t.Errorf("Expected internal_error after panic, got %v", failure["code"])
	}
}

func TestImageContent_Base64(t *testing.T) {
	content := ImageContent([]byte{0x89, 0x50, 0x4e, 0x47}, "image/png")
	if content.Type != "image" || content.MimeType != "image/png" {
		t.Errorf("Unexpected content envelope: %+v", content)
	}
	if content.Data != "iVBORw==" {
		t.Errorf("Unexpected base64 payload: %q", content.Data)
	}
}
