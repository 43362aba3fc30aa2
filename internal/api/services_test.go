package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// recordedRequest captures one request for assertion.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// serviceFixture returns a client whose server records every request and
// replies with the given body.
func serviceFixture(t *testing.T, responseBody string) (*Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   body,
		})
		w.Write([]byte(responseBody))
	}))
	t.Cleanup(srv.Close)

	return testClient(t, srv, ClientConfig{}), &requests
}

func TestProductsList(t *testing.T) {
	c, reqs := serviceFixture(t, `{
		"products": [{"id":"p1"},{"id":"p2"}],
		"pagination": {"hasNextPage": true, "nextPageCursor": "cur-2"}
	}`)

	list, err := c.Products().List(context.Background(), ListProductsParams{
		Cursor: "cur-1",
		Type:   "PHYSICAL",
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	req := (*reqs)[0]
	if req.Method != http.MethodGet || req.Path != "/commerce/products" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	if req.Query != "cursor=cur-1&type=PHYSICAL" {
		t.Errorf("query = %q", req.Query)
	}
	if len(list.Products) != 2 {
		t.Errorf("products = %d, want 2", len(list.Products))
	}
	if !list.Pagination.HasNextPage || list.Pagination.NextPageCursor != "cur-2" {
		t.Errorf("pagination = %+v", list.Pagination)
	}
}

func TestProductsGetJoinsIDs(t *testing.T) {
	c, reqs := serviceFixture(t, `{"products":[]}`)

	if _, err := c.Products().Get(context.Background(), []string{"p1", "p2", "p3"}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if path := (*reqs)[0].Path; path != "/commerce/products/p1,p2,p3" {
		t.Errorf("path = %q", path)
	}
}

func TestProductsGetRequiresIDs(t *testing.T) {
	c, reqs := serviceFixture(t, `{}`)

	_, err := c.Products().Get(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty id list")
	}
	if AsAPIError(err).Type != TypeConfiguration {
		t.Errorf("Type = %q", AsAPIError(err).Type)
	}
	if len(*reqs) != 0 {
		t.Error("no request should be issued")
	}
}

func TestProductsVariantPaths(t *testing.T) {
	c, reqs := serviceFixture(t, `{"id":"v1"}`)
	ctx := context.Background()

	c.Products().CreateVariant(ctx, "p1", map[string]any{"sku": "SKU-1"})
	c.Products().UpdateVariant(ctx, "p1", "v1", map[string]any{"sku": "SKU-2"})
	c.Products().DeleteVariant(ctx, "p1", "v1")

	want := []struct{ method, path string }{
		{http.MethodPost, "/commerce/products/p1/variants"},
		{http.MethodPost, "/commerce/products/p1/variants/v1"},
		{http.MethodDelete, "/commerce/products/p1/variants/v1"},
	}
	if len(*reqs) != len(want) {
		t.Fatalf("request count = %d, want %d", len(*reqs), len(want))
	}
	for i, w := range want {
		got := (*reqs)[i]
		if got.Method != w.method || got.Path != w.path {
			t.Errorf("request %d = %s %s, want %s %s", i, got.Method, got.Path, w.method, w.path)
		}
	}
}

func TestInventoryAdjustBody(t *testing.T) {
	c, reqs := serviceFixture(t, `{}`)

	err := c.Inventory().Adjust(context.Background(), &AdjustmentRequest{
		IncrementOperations:    []StockAdjustment{{VariantID: "v1", Quantity: 5}},
		SetUnlimitedOperations: []string{"v2"},
	})
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}

	req := (*reqs)[0]
	if req.Method != http.MethodPost || req.Path != "/commerce/inventory/adjustments" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}

	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("body unmarshal: %v", err)
	}
	incs, _ := body["incrementOperations"].([]any)
	if len(incs) != 1 {
		t.Errorf("incrementOperations = %v", body["incrementOperations"])
	}
	unlimited, _ := body["setUnlimitedOperations"].([]any)
	if len(unlimited) != 1 || unlimited[0] != "v2" {
		t.Errorf("setUnlimitedOperations = %v", body["setUnlimitedOperations"])
	}
}

func TestOrdersFulfill(t *testing.T) {
	c, reqs := serviceFixture(t, `{}`)

	err := c.Orders().Fulfill(context.Background(), "order-1", &FulfillmentRequest{
		ShouldSendNotification: true,
		Shipments: []map[string]any{
			{"carrierName": "UPS", "trackingNumber": "1Z"},
		},
	})
	if err != nil {
		t.Fatalf("Fulfill failed: %v", err)
	}

	req := (*reqs)[0]
	if req.Method != http.MethodPost || req.Path != "/commerce/orders/order-1/fulfillments" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}

	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("body unmarshal: %v", err)
	}
	if body["shouldSendNotification"] != true {
		t.Errorf("shouldSendNotification = %v", body["shouldSendNotification"])
	}
}

func TestWebhookActionPaths(t *testing.T) {
	c, reqs := serviceFixture(t, `{"id":"sub-1","endpointUrl":"https://example.com/hook","topics":["order.create"],"secret":"s2"}`)
	ctx := context.Background()

	if _, err := c.Webhooks().RotateSecret(ctx, "sub-1"); err != nil {
		t.Fatalf("RotateSecret failed: %v", err)
	}
	if _, err := c.Webhooks().SendTestNotification(ctx, "sub-1", "order.create"); err != nil {
		t.Fatalf("SendTestNotification failed: %v", err)
	}

	if path := (*reqs)[0].Path; path != "/webhook_subscriptions/sub-1/actions/rotateSecret" {
		t.Errorf("rotate path = %q", path)
	}
	if path := (*reqs)[1].Path; path != "/webhook_subscriptions/sub-1/actions/sendTestNotification" {
		t.Errorf("test notification path = %q", path)
	}

	var body map[string]string
	if err := json.Unmarshal((*reqs)[1].Body, &body); err != nil {
		t.Fatalf("body unmarshal: %v", err)
	}
	if body["topic"] != "order.create" {
		t.Errorf("topic = %q", body["topic"])
	}
}

func TestProfilesListParams(t *testing.T) {
	c, reqs := serviceFixture(t, `{"profiles":[]}`)

	_, err := c.Profiles().List(context.Background(), ListProfilesParams{
		Filter:        "isCustomer,true",
		SortField:     "email",
		SortDirection: "asc",
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if query := (*reqs)[0].Query; query != "filter=isCustomer%2Ctrue&sortDirection=asc&sortField=email" {
		t.Errorf("query = %q", query)
	}
}

func TestStorePagesList(t *testing.T) {
	c, reqs := serviceFixture(t, `{"storePages":[{"id":"sp1"}]}`)

	list, err := c.Pages().List(context.Background(), "cur")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	req := (*reqs)[0]
	if req.Path != "/commerce/store_pages" || req.Query != "cursor=cur" {
		t.Errorf("request = %s?%s", req.Path, req.Query)
	}
	if len(list.StorePages) != 1 {
		t.Errorf("storePages = %d, want 1", len(list.StorePages))
	}
}
