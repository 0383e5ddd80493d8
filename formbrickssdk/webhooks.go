package formbrickssdk

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// WebhookTrigger names a response lifecycle event a webhook subscribes to.
type WebhookTrigger string

const (
	WebhookTriggerResponseCreated  WebhookTrigger = "responseCreated"
	WebhookTriggerResponseUpdated  WebhookTrigger = "responseUpdated"
	WebhookTriggerResponseFinished WebhookTrigger = "responseFinished"
)

type Webhook struct {
	ID            uuid.UUID        `json:"id"`
	EnvironmentID uuid.UUID        `json:"environment_id"`
	URL           string           `json:"url"`
	Secret        string           `json:"secret"`
	Triggers      []WebhookTrigger `json:"triggers"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type CreateWebhookRequest struct {
	URL string `json:"url" validate:"required,url"`
	// Secret signs deliveries. Generated when empty.
	Secret   string           `json:"secret"`
	Triggers []WebhookTrigger `json:"triggers" validate:"required,min=1,dive,oneof=responseCreated responseUpdated responseFinished"`
}

type UpdateWebhookRequest struct {
	URL      string           `json:"url" validate:"required,url"`
	Triggers []WebhookTrigger `json:"triggers" validate:"required,min=1,dive,oneof=responseCreated responseUpdated responseFinished"`
}

func (c *Client) WebhooksByEnvironment(ctx context.Context, environmentID uuid.UUID) ([]Webhook, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/v2/environments/%s/webhooks", environmentID), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, readBodyAsError(res)
	}
	var webhooks []Webhook
	return webhooks, readJSON(res, &webhooks)
}

func (c *Client) CreateWebhook(ctx context.Context, environmentID uuid.UUID, req CreateWebhookRequest) (Webhook, error) {
	res, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("/api/v2/environments/%s/webhooks", environmentID), req)
	if err != nil {
		return Webhook{}, err
	}
	if res.StatusCode != http.StatusCreated {
		return Webhook{}, readBodyAsError(res)
	}
	var webhook Webhook
	return webhook, readJSON(res, &webhook)
}

func (c *Client) Webhook(ctx context.Context, id uuid.UUID) (Webhook, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/v2/webhooks/%s", id), nil)
	if err != nil {
		return Webhook{}, err
	}
	if res.StatusCode != http.StatusOK {
		return Webhook{}, readBodyAsError(res)
	}
	var webhook Webhook
	return webhook, readJSON(res, &webhook)
}

func (c *Client) UpdateWebhook(ctx context.Context, id uuid.UUID, req UpdateWebhookRequest) (Webhook, error) {
	res, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("/api/v2/webhooks/%s", id), req)
	if err != nil {
		return Webhook{}, err
	}
	if res.StatusCode != http.StatusOK {
		return Webhook{}, readBodyAsError(res)
	}
	var webhook Webhook
	return webhook, readJSON(res, &webhook)
}

func (c *Client) DeleteWebhook(ctx context.Context, id uuid.UUID) error {
	res, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/api/v2/webhooks/%s", id), nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		return readBodyAsError(res)
	}
	return nil
}
