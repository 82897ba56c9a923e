package spread

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/drummonds/gospread/mcp"
)

// ToolName is the operation the server advertises over MCP
const ToolName = "get_spread"

// Tool returns the MCP registration for the get_spread operation
func (s *Service) Tool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolName,
		Description: "Convert two PDF pages into a single side-by-side image with a black gutter border",
		InputSchema: &mcp.Schema{
			Type: "object",
			Properties: map[string]*mcp.Schema{
				"pdf_path": {
					Type:        "string",
					Description: "Path to the PDF file (can use ~ for home directory)",
				},
				"left_page": {
					Type:        "integer",
					Description: "Left page number (1-based index)",
				},
				"right_page": {
					Type:        "integer",
					Description: "Right page number (1-based index)",
				},
				"border_width": {
					Type:        "integer",
					Description: fmt.Sprintf("Width of black border in pixels (default: %d)", s.serverConfig.DefaultBorderWidth),
					Default:     s.serverConfig.DefaultBorderWidth,
				},
			},
			Required: []string{"pdf_path", "left_page", "right_page"},
		},
		Handler: s.handleGetSpread,
	}
}

func (s *Service) handleGetSpread(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
	var params struct {
		PDFPath     string `json:"pdf_path"`
		LeftPage    *int   `json:"left_page"`
		RightPage   *int   `json:"right_page"`
		BorderWidth *int   `json:"border_width"`
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, mcp.InvalidParamsf("malformed get_spread arguments: %v", err)
		}
	}
	if params.PDFPath == "" || params.LeftPage == nil || params.RightPage == nil {
		return nil, mcp.InvalidParamsf("missing required parameters: pdf_path, left_page, right_page")
	}

	borderWidth := s.serverConfig.DefaultBorderWidth
	if params.BorderWidth != nil {
		borderWidth = *params.BorderWidth
	}

	encoded, err := s.GetSpread(ctx, params.PDFPath, *params.LeftPage, *params.RightPage, borderWidth)
	if err != nil {
		return nil, err
	}

	return &mcp.ToolResult{
		Content: []mcp.Content{
			mcp.ImageContent(encoded, "image/png"),
			mcp.TextContent(fmt.Sprintf("Double-page spread: pages %d-%d", *params.LeftPage, *params.RightPage)),
		},
	}, nil
}
