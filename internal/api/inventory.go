package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

// InventoryService wraps the commerce inventory endpoints.
type InventoryService struct {
	client *Client
}

// Inventory returns the inventory service.
func (c *Client) Inventory() *InventoryService {
	return &InventoryService{client: c}
}

// InventoryList is the list endpoint's response envelope.
type InventoryList struct {
	Inventory  []json.RawMessage `json:"inventory"`
	Pagination Pagination        `json:"pagination"`
}

// List retrieves one page of inventory records.
func (s *InventoryService) List(ctx context.Context, cursor string) (*InventoryList, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	resp, err := s.client.Get(ctx, "/commerce/inventory", query)
	if err != nil {
		return nil, err
	}
	var list InventoryList
	if err := resp.UnmarshalData(&list); err != nil {
		return nil, AsAPIError(err)
	}
	return &list, nil
}

// Get retrieves up to 50 inventory records by variant ID.
func (s *InventoryService) Get(ctx context.Context, variantIDs []string) (*InventoryList, error) {
	if len(variantIDs) == 0 {
		return nil, ErrConfig("at least one variant id is required")
	}
	resp, err := s.client.Get(ctx, "/commerce/inventory/"+strings.Join(variantIDs, ","), nil)
	if err != nil {
		return nil, err
	}
	var list InventoryList
	if err := resp.UnmarshalData(&list); err != nil {
		return nil, AsAPIError(err)
	}
	return &list, nil
}

// StockAdjustment describes one incremental or absolute stock change.
type StockAdjustment struct {
	VariantID string `json:"variantId"`
	Quantity  int64  `json:"quantity"`
}

// AdjustmentRequest batches stock operations into one adjustment call.
type AdjustmentRequest struct {
	IncrementOperations    []StockAdjustment `json:"incrementOperations,omitempty"`
	DecrementOperations    []StockAdjustment `json:"decrementOperations,omitempty"`
	SetFiniteOperations    []StockAdjustment `json:"setFiniteOperations,omitempty"`
	SetUnlimitedOperations []string          `json:"setUnlimitedOperations,omitempty"`
}

// Adjust applies stock adjustments atomically.
func (s *InventoryService) Adjust(ctx context.Context, req *AdjustmentRequest) error {
	_, err := s.client.Post(ctx, "/commerce/inventory/adjustments", req)
	return err
}
