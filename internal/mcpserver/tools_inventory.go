package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sqsp-tools/squarespace-mcp/internal/api"
)

func (s *Server) registerInventoryTools() {
	s.addTool(mcp.NewTool(
		"list_inventory",
		mcp.WithDescription("List stock levels for all product variants, one page per call."),
		mcp.WithString("cursor", mcp.Description("Page cursor from a previous response")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := s.client.Inventory().List(ctx, request.GetString("cursor", ""))
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(list)
	})

	s.addTool(mcp.NewTool(
		"get_inventory",
		mcp.WithDescription("Retrieve stock levels for up to 50 variants by ID."),
		mcp.WithArray("variant_ids",
			mcp.Required(),
			mcp.Description("Variant IDs to retrieve"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := request.RequireStringSlice("variant_ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		list, err := s.client.Inventory().Get(ctx, ids)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(list)
	})

	s.addTool(mcp.NewTool(
		"adjust_inventory",
		mcp.WithDescription("Adjust stock atomically. Each operation list is optional; increments and decrements are relative, set_finite is absolute, set_unlimited removes stock tracking."),
		mcp.WithArray("increment",
			mcp.Description("Operations of {variantId, quantity} to add stock"),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithArray("decrement",
			mcp.Description("Operations of {variantId, quantity} to remove stock"),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithArray("set_finite",
			mcp.Description("Operations of {variantId, quantity} to set absolute stock"),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithArray("set_unlimited",
			mcp.Description("Variant IDs to mark as unlimited stock"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := &api.AdjustmentRequest{
			IncrementOperations: stockOps(request, "increment"),
			DecrementOperations: stockOps(request, "decrement"),
			SetFiniteOperations: stockOps(request, "set_finite"),
		}
		req.SetUnlimitedOperations = request.GetStringSlice("set_unlimited", nil)

		if len(req.IncrementOperations) == 0 && len(req.DecrementOperations) == 0 &&
			len(req.SetFiniteOperations) == 0 && len(req.SetUnlimitedOperations) == 0 {
			return mcp.NewToolResultError("at least one adjustment operation is required"), nil
		}

		if err := s.client.Inventory().Adjust(ctx, req); err != nil {
			return errorResult(err)
		}
		return jsonResult(map[string]any{"adjusted": true})
	})
}

// stockOps converts an argument of [{variantId, quantity}, ...] into typed
// adjustment operations, skipping malformed entries.
func stockOps(request mcp.CallToolRequest, key string) []api.StockAdjustment {
	raw, ok := request.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	ops := make([]api.StockAdjustment, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		variantID, _ := m["variantId"].(string)
		quantity, _ := m["quantity"].(float64)
		if variantID == "" {
			continue
		}
		ops = append(ops, api.StockAdjustment{
			VariantID: variantID,
			Quantity:  int64(quantity),
		})
	}
	return ops
}
