package api

import (
	"context"
	"encoding/json"
)

// WebhooksService wraps the webhook subscription endpoints. This manages
// subscriptions over REST only; receiving webhook notifications is out of
// scope for this client.
type WebhooksService struct {
	client *Client
}

// Webhooks returns the webhooks service.
func (c *Client) Webhooks() *WebhooksService {
	return &WebhooksService{client: c}
}

// WebhookSubscription is a registered webhook subscription.
type WebhookSubscription struct {
	ID          string   `json:"id"`
	EndpointURL string   `json:"endpointUrl"`
	Topics      []string `json:"topics"`
	Secret      string   `json:"secret,omitempty"`
	CreatedOn   string   `json:"createdOn,omitempty"`
	UpdatedOn   string   `json:"updatedOn,omitempty"`
}

// WebhookSubscriptionList is the list endpoint's response envelope.
type WebhookSubscriptionList struct {
	WebhookSubscriptions []WebhookSubscription `json:"webhookSubscriptions"`
}

// CreateWebhookRequest registers a new subscription.
type CreateWebhookRequest struct {
	EndpointURL string   `json:"endpointUrl"`
	Topics      []string `json:"topics"`
}

// UpdateWebhookRequest changes an existing subscription. Empty fields are
// left unchanged.
type UpdateWebhookRequest struct {
	EndpointURL string   `json:"endpointUrl,omitempty"`
	Topics      []string `json:"topics,omitempty"`
}

// List retrieves all webhook subscriptions for the site.
func (s *WebhooksService) List(ctx context.Context) (*WebhookSubscriptionList, error) {
	resp, err := s.client.Get(ctx, "/webhook_subscriptions", nil)
	if err != nil {
		return nil, err
	}
	var list WebhookSubscriptionList
	if err := resp.UnmarshalData(&list); err != nil {
		return nil, AsAPIError(err)
	}
	return &list, nil
}

// Get retrieves a single webhook subscription.
func (s *WebhooksService) Get(ctx context.Context, id string) (*WebhookSubscription, error) {
	resp, err := s.client.Get(ctx, "/webhook_subscriptions/"+id, nil)
	if err != nil {
		return nil, err
	}
	var sub WebhookSubscription
	if err := resp.UnmarshalData(&sub); err != nil {
		return nil, AsAPIError(err)
	}
	return &sub, nil
}

// Create registers a new webhook subscription.
func (s *WebhooksService) Create(ctx context.Context, req *CreateWebhookRequest) (*WebhookSubscription, error) {
	resp, err := s.client.Post(ctx, "/webhook_subscriptions", req)
	if err != nil {
		return nil, err
	}
	var sub WebhookSubscription
	if err := resp.UnmarshalData(&sub); err != nil {
		return nil, AsAPIError(err)
	}
	return &sub, nil
}

// Update changes a webhook subscription.
func (s *WebhooksService) Update(ctx context.Context, id string, req *UpdateWebhookRequest) (*WebhookSubscription, error) {
	resp, err := s.client.Post(ctx, "/webhook_subscriptions/"+id, req)
	if err != nil {
		return nil, err
	}
	var sub WebhookSubscription
	if err := resp.UnmarshalData(&sub); err != nil {
		return nil, AsAPIError(err)
	}
	return &sub, nil
}

// Delete removes a webhook subscription.
func (s *WebhooksService) Delete(ctx context.Context, id string) error {
	_, err := s.client.Delete(ctx, "/webhook_subscriptions/"+id)
	return err
}

// RotateSecret replaces the subscription's signing secret and returns the
// subscription carrying the new secret.
func (s *WebhooksService) RotateSecret(ctx context.Context, id string) (*WebhookSubscription, error) {
	resp, err := s.client.Post(ctx, "/webhook_subscriptions/"+id+"/actions/rotateSecret", nil)
	if err != nil {
		return nil, err
	}
	var sub WebhookSubscription
	if err := resp.UnmarshalData(&sub); err != nil {
		return nil, AsAPIError(err)
	}
	return &sub, nil
}

// SendTestNotification asks the provider to deliver a sample payload for
// the given topic to the subscription's endpoint.
func (s *WebhooksService) SendTestNotification(ctx context.Context, id, topic string) (json.RawMessage, error) {
	body := map[string]string{"topic": topic}
	resp, err := s.client.Post(ctx, "/webhook_subscriptions/"+id+"/actions/sendTestNotification", body)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
