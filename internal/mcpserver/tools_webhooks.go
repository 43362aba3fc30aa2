package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sqsp-tools/squarespace-mcp/internal/api"
)

func (s *Server) registerWebhookTools() {
	s.addTool(mcp.NewTool(
		"list_webhook_subscriptions",
		mcp.WithDescription("List all webhook subscriptions registered for the site."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := s.client.Webhooks().List(ctx)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(list)
	})

	s.addTool(mcp.NewTool(
		"get_webhook_subscription",
		mcp.WithDescription("Retrieve a single webhook subscription."),
		mcp.WithString("subscription_id", mcp.Required(), mcp.Description("Subscription ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("subscription_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sub, err := s.client.Webhooks().Get(ctx, id)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(sub)
	})

	s.addTool(mcp.NewTool(
		"create_webhook_subscription",
		mcp.WithDescription("Register a webhook subscription. Topics include order.create, order.update, transaction.create, inventory.update, profile.create, extension.uninstall."),
		mcp.WithString("endpoint_url", mcp.Required(), mcp.Description("HTTPS endpoint that receives notifications")),
		mcp.WithArray("topics",
			mcp.Required(),
			mcp.Description("Event topics to subscribe to"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		endpointURL, err := request.RequireString("endpoint_url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		topics, err := request.RequireStringSlice("topics")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sub, err := s.client.Webhooks().Create(ctx, &api.CreateWebhookRequest{
			EndpointURL: endpointURL,
			Topics:      topics,
		})
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(sub)
	})

	s.addTool(mcp.NewTool(
		"update_webhook_subscription",
		mcp.WithDescription("Change a webhook subscription's endpoint URL or topics."),
		mcp.WithString("subscription_id", mcp.Required(), mcp.Description("Subscription ID")),
		mcp.WithString("endpoint_url", mcp.Description("New HTTPS endpoint")),
		mcp.WithArray("topics",
			mcp.Description("New event topics (replaces the existing set)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("subscription_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		req := &api.UpdateWebhookRequest{
			EndpointURL: request.GetString("endpoint_url", ""),
			Topics:      request.GetStringSlice("topics", nil),
		}
		if req.EndpointURL == "" && len(req.Topics) == 0 {
			return mcp.NewToolResultError("at least one of endpoint_url or topics is required"), nil
		}
		sub, err := s.client.Webhooks().Update(ctx, id, req)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(sub)
	})

	s.addTool(mcp.NewTool(
		"delete_webhook_subscription",
		mcp.WithDescription("Delete a webhook subscription."),
		mcp.WithString("subscription_id", mcp.Required(), mcp.Description("Subscription ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("subscription_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.client.Webhooks().Delete(ctx, id); err != nil {
			return errorResult(err)
		}
		return jsonResult(map[string]any{"deleted": true, "subscriptionId": id})
	})

	s.addTool(mcp.NewTool(
		"rotate_webhook_secret",
		mcp.WithDescription("Replace a subscription's signing secret. The response carries the new secret; the old one stops validating immediately."),
		mcp.WithString("subscription_id", mcp.Required(), mcp.Description("Subscription ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("subscription_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sub, err := s.client.Webhooks().RotateSecret(ctx, id)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(sub)
	})

	s.addTool(mcp.NewTool(
		"send_test_notification",
		mcp.WithDescription("Deliver a sample payload for a topic to the subscription's endpoint."),
		mcp.WithString("subscription_id", mcp.Required(), mcp.Description("Subscription ID")),
		mcp.WithString("topic", mcp.Required(), mcp.Description("Topic to send a sample payload for")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("subscription_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		topic, err := request.RequireString("topic")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := s.client.Webhooks().SendTestNotification(ctx, id, topic)
		if err != nil {
			return errorResult(err)
		}
		return rawResult(result)
	})
}
