package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

// ProductsService wraps the commerce products endpoints.
type ProductsService struct {
	client *Client
}

// Products returns the products service.
func (c *Client) Products() *ProductsService {
	return &ProductsService{client: c}
}

// ProductList is the list endpoint's response envelope.
type ProductList struct {
	Products   []json.RawMessage `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

// ListProductsParams filters and pages the product listing.
type ListProductsParams struct {
	Cursor         string
	ModifiedAfter  string // ISO 8601
	ModifiedBefore string // ISO 8601
	Type           string // PHYSICAL, DIGITAL
}

// List retrieves one page of products.
func (s *ProductsService) List(ctx context.Context, params ListProductsParams) (*ProductList, error) {
	query := url.Values{}
	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}
	if params.ModifiedAfter != "" {
		query.Set("modifiedAfter", params.ModifiedAfter)
	}
	if params.ModifiedBefore != "" {
		query.Set("modifiedBefore", params.ModifiedBefore)
	}
	if params.Type != "" {
		query.Set("type", params.Type)
	}

	resp, err := s.client.Get(ctx, "/commerce/products", query)
	if err != nil {
		return nil, err
	}
	var list ProductList
	if err := resp.UnmarshalData(&list); err != nil {
		return nil, AsAPIError(err)
	}
	return &list, nil
}

// Get retrieves up to 50 products by ID.
func (s *ProductsService) Get(ctx context.Context, ids []string) (*ProductList, error) {
	if len(ids) == 0 {
		return nil, ErrConfig("at least one product id is required")
	}
	resp, err := s.client.Get(ctx, "/commerce/products/"+strings.Join(ids, ","), nil)
	if err != nil {
		return nil, err
	}
	var list ProductList
	if err := resp.UnmarshalData(&list); err != nil {
		return nil, AsAPIError(err)
	}
	return &list, nil
}

// Create creates a product on a store page. The body is passed through to
// the API unchanged.
func (s *ProductsService) Create(ctx context.Context, product map[string]any) (json.RawMessage, error) {
	resp, err := s.client.Post(ctx, "/commerce/products", product)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Update applies a partial update to a product.
func (s *ProductsService) Update(ctx context.Context, productID string, fields map[string]any) (json.RawMessage, error) {
	resp, err := s.client.Post(ctx, "/commerce/products/"+productID, fields)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Delete removes a product.
func (s *ProductsService) Delete(ctx context.Context, productID string) error {
	_, err := s.client.Delete(ctx, "/commerce/products/"+productID)
	return err
}

// CreateVariant adds a variant to a product.
func (s *ProductsService) CreateVariant(ctx context.Context, productID string, variant map[string]any) (json.RawMessage, error) {
	resp, err := s.client.Post(ctx, "/commerce/products/"+productID+"/variants", variant)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UpdateVariant applies a partial update to a product variant.
func (s *ProductsService) UpdateVariant(ctx context.Context, productID, variantID string, fields map[string]any) (json.RawMessage, error) {
	resp, err := s.client.Post(ctx, "/commerce/products/"+productID+"/variants/"+variantID, fields)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeleteVariant removes a product variant.
func (s *ProductsService) DeleteVariant(ctx context.Context, productID, variantID string) error {
	_, err := s.client.Delete(ctx, "/commerce/products/"+productID+"/variants/"+variantID)
	return err
}
