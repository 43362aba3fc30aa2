package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sqsp-tools/squarespace-mcp/internal/api"
)

func (s *Server) registerProductTools() {
	s.addTool(mcp.NewTool(
		"list_products",
		mcp.WithDescription("List products in the site's store, one page per call."),
		mcp.WithString("cursor", mcp.Description("Page cursor from a previous response")),
		mcp.WithString("modified_after", mcp.Description("Only products modified after this ISO 8601 timestamp")),
		mcp.WithString("modified_before", mcp.Description("Only products modified before this ISO 8601 timestamp")),
		mcp.WithString("type", mcp.Description("Product type filter: PHYSICAL or DIGITAL")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := s.client.Products().List(ctx, api.ListProductsParams{
			Cursor:         request.GetString("cursor", ""),
			ModifiedAfter:  request.GetString("modified_after", ""),
			ModifiedBefore: request.GetString("modified_before", ""),
			Type:           request.GetString("type", ""),
		})
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(list)
	})

	s.addTool(mcp.NewTool(
		"get_products",
		mcp.WithDescription("Retrieve up to 50 products by ID."),
		mcp.WithArray("product_ids",
			mcp.Required(),
			mcp.Description("Product IDs to retrieve"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := request.RequireStringSlice("product_ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		list, err := s.client.Products().Get(ctx, ids)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(list)
	})

	s.addTool(mcp.NewTool(
		"create_product",
		mcp.WithDescription("Create a physical product on a store page. The product object follows the Squarespace Products API schema (type, storePageId, name, variants, ...)."),
		mcp.WithObject("product",
			mcp.Required(),
			mcp.Description("Product definition"),
		),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		product, ok := objectArg(request, "product")
		if !ok {
			return mcp.NewToolResultError("product must be a JSON object"), nil
		}
		created, err := s.client.Products().Create(ctx, product)
		if err != nil {
			return errorResult(err)
		}
		return rawResult(created)
	})

	s.addTool(mcp.NewTool(
		"update_product",
		mcp.WithDescription("Apply a partial update to a product. Only the supplied fields change."),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Product ID")),
		mcp.WithObject("fields", mcp.Required(), mcp.Description("Fields to update")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		productID, err := request.RequireString("product_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fields, ok := objectArg(request, "fields")
		if !ok {
			return mcp.NewToolResultError("fields must be a JSON object"), nil
		}
		updated, err := s.client.Products().Update(ctx, productID, fields)
		if err != nil {
			return errorResult(err)
		}
		return rawResult(updated)
	})

	s.addTool(mcp.NewTool(
		"delete_product",
		mcp.WithDescription("Delete a product and all of its variants."),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Product ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		productID, err := request.RequireString("product_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.client.Products().Delete(ctx, productID); err != nil {
			return errorResult(err)
		}
		return jsonResult(map[string]any{"deleted": true, "productId": productID})
	})

	s.addTool(mcp.NewTool(
		"create_product_variant",
		mcp.WithDescription("Add a variant to an existing product."),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Product ID")),
		mcp.WithObject("variant", mcp.Required(), mcp.Description("Variant definition (sku, pricing, attributes, ...)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		productID, err := request.RequireString("product_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		variant, ok := objectArg(request, "variant")
		if !ok {
			return mcp.NewToolResultError("variant must be a JSON object"), nil
		}
		created, err := s.client.Products().CreateVariant(ctx, productID, variant)
		if err != nil {
			return errorResult(err)
		}
		return rawResult(created)
	})

	s.addTool(mcp.NewTool(
		"update_product_variant",
		mcp.WithDescription("Apply a partial update to a product variant."),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Product ID")),
		mcp.WithString("variant_id", mcp.Required(), mcp.Description("Variant ID")),
		mcp.WithObject("fields", mcp.Required(), mcp.Description("Fields to update")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		productID, err := request.RequireString("product_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		variantID, err := request.RequireString("variant_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fields, ok := objectArg(request, "fields")
		if !ok {
			return mcp.NewToolResultError("fields must be a JSON object"), nil
		}
		updated, err := s.client.Products().UpdateVariant(ctx, productID, variantID, fields)
		if err != nil {
			return errorResult(err)
		}
		return rawResult(updated)
	})

	s.addTool(mcp.NewTool(
		"delete_product_variant",
		mcp.WithDescription("Delete a product variant. A product's last variant cannot be deleted."),
		mcp.WithString("product_id", mcp.Required(), mcp.Description("Product ID")),
		mcp.WithString("variant_id", mcp.Required(), mcp.Description("Variant ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		productID, err := request.RequireString("product_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		variantID, err := request.RequireString("variant_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.client.Products().DeleteVariant(ctx, productID, variantID); err != nil {
			return errorResult(err)
		}
		return jsonResult(map[string]any{"deleted": true, "productId": productID, "variantId": variantID})
	})
}
