package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerContentTools() {
	s.addTool(mcp.NewTool(
		"list_store_pages",
		mcp.WithDescription("List the site's store pages. Products are created against a store page ID."),
		mcp.WithString("cursor", mcp.Description("Page cursor from a previous response")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := s.client.Pages().List(ctx, request.GetString("cursor", ""))
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(list)
	})
}
