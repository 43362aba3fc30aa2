package api

import (
	"context"
	"encoding/json"
	"net/url"
)

// OrdersService wraps the commerce orders endpoints.
type OrdersService struct {
	client *Client
}

// Orders returns the orders service.
func (c *Client) Orders() *OrdersService {
	return &OrdersService{client: c}
}

// OrderList is the list endpoint's response envelope.
type OrderList struct {
	Result     []json.RawMessage `json:"result"`
	Pagination Pagination        `json:"pagination"`
}

// ListOrdersParams filters and pages the order listing.
type ListOrdersParams struct {
	Cursor            string
	ModifiedAfter     string // ISO 8601
	ModifiedBefore    string // ISO 8601
	FulfillmentStatus string // PENDING, FULFILLED, CANCELED
}

// List retrieves one page of orders.
func (s *OrdersService) List(ctx context.Context, params ListOrdersParams) (*OrderList, error) {
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
	if params.FulfillmentStatus != "" {
		query.Set("fulfillmentStatus", params.FulfillmentStatus)
	}

	resp, err := s.client.Get(ctx, "/commerce/orders", query)
	if err != nil {
		return nil, err
	}
	var list OrderList
	if err := resp.UnmarshalData(&list); err != nil {
		return nil, AsAPIError(err)
	}
	return &list, nil
}

// Get retrieves a single order.
func (s *OrdersService) Get(ctx context.Context, orderID string) (json.RawMessage, error) {
	resp, err := s.client.Get(ctx, "/commerce/orders/"+orderID, nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Import creates an order from an external sales channel. The body is
// passed through to the API unchanged.
func (s *OrdersService) Import(ctx context.Context, order map[string]any) (json.RawMessage, error) {
	resp, err := s.client.Post(ctx, "/commerce/orders", order)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FulfillmentRequest marks an order fulfilled, optionally with shipments.
type FulfillmentRequest struct {
	ShouldSendNotification bool             `json:"shouldSendNotification"`
	Shipments              []map[string]any `json:"shipments,omitempty"`
}

// Fulfill records fulfillment for a pending order.
func (s *OrdersService) Fulfill(ctx context.Context, orderID string, req *FulfillmentRequest) error {
	_, err := s.client.Post(ctx, "/commerce/orders/"+orderID+"/fulfillments", req)
	return err
}
