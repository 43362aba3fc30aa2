package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

// ProfilesService wraps the profiles endpoints.
type ProfilesService struct {
	client *Client
}

// Profiles returns the profiles service.
func (c *Client) Profiles() *ProfilesService {
	return &ProfilesService{client: c}
}

// ProfileList is the list endpoint's response envelope.
type ProfileList struct {
	Profiles   []json.RawMessage `json:"profiles"`
	Pagination Pagination        `json:"pagination"`
}

// ListProfilesParams filters, sorts, and pages the profile listing.
type ListProfilesParams struct {
	Cursor        string
	Filter        string // e.g. "isCustomer,true" or "email,user@example.com"
	SortDirection string // asc, desc
	SortField     string // email, firstName, lastName, ...
}

// List retrieves one page of profiles.
func (s *ProfilesService) List(ctx context.Context, params ListProfilesParams) (*ProfileList, error) {
	query := url.Values{}
	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}
	if params.Filter != "" {
		query.Set("filter", params.Filter)
	}
	if params.SortDirection != "" {
		query.Set("sortDirection", params.SortDirection)
	}
	if params.SortField != "" {
		query.Set("sortField", params.SortField)
	}

	resp, err := s.client.Get(ctx, "/profiles", query)
	if err != nil {
		return nil, err
	}
	var list ProfileList
	if err := resp.UnmarshalData(&list); err != nil {
		return nil, AsAPIError(err)
	}
	return &list, nil
}

// Get retrieves up to 50 profiles by ID.
func (s *ProfilesService) Get(ctx context.Context, ids []string) (*ProfileList, error) {
	if len(ids) == 0 {
		return nil, ErrConfig("at least one profile id is required")
	}
	resp, err := s.client.Get(ctx, "/profiles/"+strings.Join(ids, ","), nil)
	if err != nil {
		return nil, err
	}
	var list ProfileList
	if err := resp.UnmarshalData(&list); err != nil {
		return nil, AsAPIError(err)
	}
	return &list, nil
}
