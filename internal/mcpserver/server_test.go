package mcpserver

import (
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqsp-tools/squarespace-mcp/internal/api"
)

func TestToolCatalog(t *testing.T) {
	s := New(nil, zerolog.Nop())
	tools := s.Tools()

	want := []string{
		"list_products",
		"get_products",
		"create_product",
		"update_product",
		"delete_product",
		"create_product_variant",
		"update_product_variant",
		"delete_product_variant",
		"list_inventory",
		"get_inventory",
		"adjust_inventory",
		"list_orders",
		"get_order",
		"import_order",
		"fulfill_order",
		"list_transactions",
		"list_profiles",
		"get_profiles",
		"list_webhook_subscriptions",
		"get_webhook_subscription",
		"create_webhook_subscription",
		"update_webhook_subscription",
		"delete_webhook_subscription",
		"rotate_webhook_secret",
		"send_test_notification",
		"list_store_pages",
	}

	names := make(map[string]bool, len(tools))
	for _, tool := range tools {
		assert.False(t, names[tool.Name], "duplicate tool %s", tool.Name)
		names[tool.Name] = true
		assert.NotEmpty(t, tool.Description, "tool %s has no description", tool.Name)
	}
	for _, name := range want {
		assert.True(t, names[name], "missing tool %s", name)
	}
	assert.Len(t, tools, len(want))
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T, want TextContent", result.Content[0])
	return text.Text
}

func TestJSONResult(t *testing.T) {
	result, err := jsonResult(map[string]any{"adjusted": true})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"adjusted": true}`, textOf(t, result))
}

func TestRawResult(t *testing.T) {
	raw := json.RawMessage(`{"id":"order-1"}`)
	result, err := rawResult(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"order-1"}`, textOf(t, result))
}

func TestErrorResult(t *testing.T) {
	apiErr := &api.APIError{
		StatusCode: 404,
		Type:       "NOT_FOUND",
		Message:    "no such order",
		Details:    []api.FieldError{{Field: "orderId", Message: "unknown"}},
	}

	result, err := errorResult(apiErr)
	require.NoError(t, err, "tool errors are results, not transport errors")
	assert.True(t, result.IsError)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &payload))
	assert.Equal(t, float64(404), payload["statusCode"])
	assert.Equal(t, "NOT_FOUND", payload["type"])
	assert.Equal(t, "no such order", payload["message"])
}

func requestWith(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestObjectArg(t *testing.T) {
	req := requestWith(map[string]any{
		"order": map[string]any{"channelName": "ebay"},
		"name":  "not an object",
	})

	obj, ok := objectArg(req, "order")
	require.True(t, ok)
	assert.Equal(t, "ebay", obj["channelName"])

	_, ok = objectArg(req, "name")
	assert.False(t, ok)
	_, ok = objectArg(req, "missing")
	assert.False(t, ok)
}

func TestStockOps(t *testing.T) {
	req := requestWith(map[string]any{
		"increment": []any{
			map[string]any{"variantId": "v1", "quantity": float64(5)},
			map[string]any{"quantity": float64(2)}, // no variantId, skipped
			"not an object",                        // skipped
			map[string]any{"variantId": "v2", "quantity": float64(0)},
		},
	})

	ops := stockOps(req, "increment")
	require.Len(t, ops, 2)
	assert.Equal(t, api.StockAdjustment{VariantID: "v1", Quantity: 5}, ops[0])
	assert.Equal(t, api.StockAdjustment{VariantID: "v2", Quantity: 0}, ops[1])

	assert.Nil(t, stockOps(req, "decrement"))
}
