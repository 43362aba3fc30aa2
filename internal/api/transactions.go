package api

import (
	"context"
	"encoding/json"
	"net/url"
)

// TransactionsService wraps the commerce transactions endpoints.
type TransactionsService struct {
	client *Client
}

// Transactions returns the transactions service.
func (c *Client) Transactions() *TransactionsService {
	return &TransactionsService{client: c}
}

// TransactionList is the list endpoint's response envelope.
type TransactionList struct {
	Documents  []json.RawMessage `json:"documents"`
	Pagination Pagination        `json:"pagination"`
}

// ListTransactionsParams filters and pages the transaction listing.
type ListTransactionsParams struct {
	Cursor         string
	ModifiedAfter  string // ISO 8601
	ModifiedBefore string // ISO 8601
}

// List retrieves one page of transaction documents.
func (s *TransactionsService) List(ctx context.Context, params ListTransactionsParams) (*TransactionList, error) {
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

	resp, err := s.client.Get(ctx, "/commerce/transactions", query)
	if err != nil {
		return nil, err
	}
	var list TransactionList
	if err := resp.UnmarshalData(&list); err != nil {
		return nil, AsAPIError(err)
	}
	return &list, nil
}
