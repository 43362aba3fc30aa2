package api

import (
	"context"
	"encoding/json"
	"net/url"
)

// PagesService wraps the store pages endpoints, the content surface the
// commerce API exposes.
type PagesService struct {
	client *Client
}

// Pages returns the store pages service.
func (c *Client) Pages() *PagesService {
	return &PagesService{client: c}
}

// StorePageList is the list endpoint's response envelope.
type StorePageList struct {
	StorePages []json.RawMessage `json:"storePages"`
	Pagination Pagination        `json:"pagination"`
}

// List retrieves one page of store pages.
func (s *PagesService) List(ctx context.Context, cursor string) (*StorePageList, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	resp, err := s.client.Get(ctx, "/commerce/store_pages", query)
	if err != nil {
		return nil, err
	}
	var list StorePageList
	if err := resp.UnmarshalData(&list); err != nil {
		return nil, AsAPIError(err)
	}
	return &list, nil
}
