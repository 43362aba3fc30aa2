package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sqsp-tools/squarespace-mcp/internal/api"
)

func (s *Server) registerOrderTools() {
	s.addTool(mcp.NewTool(
		"list_orders",
		mcp.WithDescription("List orders, one page per call."),
		mcp.WithString("cursor", mcp.Description("Page cursor from a previous response")),
		mcp.WithString("modified_after", mcp.Description("Only orders modified after this ISO 8601 timestamp")),
		mcp.WithString("modified_before", mcp.Description("Only orders modified before this ISO 8601 timestamp")),
		mcp.WithString("fulfillment_status", mcp.Description("Filter: PENDING, FULFILLED, or CANCELED")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := s.client.Orders().List(ctx, api.ListOrdersParams{
			Cursor:            request.GetString("cursor", ""),
			ModifiedAfter:     request.GetString("modified_after", ""),
			ModifiedBefore:    request.GetString("modified_before", ""),
			FulfillmentStatus: request.GetString("fulfillment_status", ""),
		})
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(list)
	})

	s.addTool(mcp.NewTool(
		"get_order",
		mcp.WithDescription("Retrieve a single order with line items, totals, and fulfillment state."),
		mcp.WithString("order_id", mcp.Required(), mcp.Description("Order ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orderID, err := request.RequireString("order_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		order, err := s.client.Orders().Get(ctx, orderID)
		if err != nil {
			return errorResult(err)
		}
		return rawResult(order)
	})

	s.addTool(mcp.NewTool(
		"import_order",
		mcp.WithDescription("Import an order from an external sales channel. The order object follows the Squarespace Orders API schema (channelName, externalOrderReference, customerEmail, lineItems, ...)."),
		mcp.WithObject("order", mcp.Required(), mcp.Description("Order definition")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		order, ok := objectArg(request, "order")
		if !ok {
			return mcp.NewToolResultError("order must be a JSON object"), nil
		}
		created, err := s.client.Orders().Import(ctx, order)
		if err != nil {
			return errorResult(err)
		}
		return rawResult(created)
	})

	s.addTool(mcp.NewTool(
		"fulfill_order",
		mcp.WithDescription("Mark a pending order fulfilled, optionally recording shipments."),
		mcp.WithString("order_id", mcp.Required(), mcp.Description("Order ID")),
		mcp.WithBoolean("notify_customer", mcp.Description("Send the customer a fulfillment notification (default false)")),
		mcp.WithArray("shipments",
			mcp.Description("Shipment objects ({shipDate, carrierName, service, trackingNumber, trackingUrl})"),
			mcp.Items(map[string]any{"type": "object"}),
		),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orderID, err := request.RequireString("order_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		req := &api.FulfillmentRequest{
			ShouldSendNotification: request.GetBool("notify_customer", false),
		}
		if raw, ok := request.GetArguments()["shipments"].([]any); ok {
			for _, item := range raw {
				if m, ok := item.(map[string]any); ok {
					req.Shipments = append(req.Shipments, m)
				}
			}
		}

		if err := s.client.Orders().Fulfill(ctx, orderID, req); err != nil {
			return errorResult(err)
		}
		return jsonResult(map[string]any{"fulfilled": true, "orderId": orderID})
	})

	s.addTool(mcp.NewTool(
		"list_transactions",
		mcp.WithDescription("List financial transaction documents (payments, refunds, payouts), one page per call."),
		mcp.WithString("cursor", mcp.Description("Page cursor from a previous response")),
		mcp.WithString("modified_after", mcp.Description("Only documents modified after this ISO 8601 timestamp")),
		mcp.WithString("modified_before", mcp.Description("Only documents modified before this ISO 8601 timestamp")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := s.client.Transactions().List(ctx, api.ListTransactionsParams{
			Cursor:         request.GetString("cursor", ""),
			ModifiedAfter:  request.GetString("modified_after", ""),
			ModifiedBefore: request.GetString("modified_before", ""),
		})
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(list)
	})
}
