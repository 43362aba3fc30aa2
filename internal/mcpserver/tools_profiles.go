package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sqsp-tools/squarespace-mcp/internal/api"
)

func (s *Server) registerProfileTools() {
	s.addTool(mcp.NewTool(
		"list_profiles",
		mcp.WithDescription("List customer and contact profiles, one page per call."),
		mcp.WithString("cursor", mcp.Description("Page cursor from a previous response")),
		mcp.WithString("filter", mcp.Description("Filter expression, e.g. \"isCustomer,true\" or \"email,user@example.com\"")),
		mcp.WithString("sort_field", mcp.Description("Sort field, e.g. email, firstName, lastName")),
		mcp.WithString("sort_direction", mcp.Description("Sort direction: asc or desc")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := s.client.Profiles().List(ctx, api.ListProfilesParams{
			Cursor:        request.GetString("cursor", ""),
			Filter:        request.GetString("filter", ""),
			SortField:     request.GetString("sort_field", ""),
			SortDirection: request.GetString("sort_direction", ""),
		})
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(list)
	})

	s.addTool(mcp.NewTool(
		"get_profiles",
		mcp.WithDescription("Retrieve up to 50 profiles by ID."),
		mcp.WithArray("profile_ids",
			mcp.Required(),
			mcp.Description("Profile IDs to retrieve"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := request.RequireStringSlice("profile_ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		list, err := s.client.Profiles().Get(ctx, ids)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(list)
	})
}
