package formbrickssdk

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// EnvironmentType separates production traffic from development traffic.
type EnvironmentType string

const (
	EnvironmentTypeProduction  EnvironmentType = "production"
	EnvironmentTypeDevelopment EnvironmentType = "development"
)

type Environment struct {
	ID                   uuid.UUID       `json:"id"`
	ProductID            uuid.UUID       `json:"product_id"`
	Type                 EnvironmentType `json:"type"`
	WidgetSetupCompleted bool            `json:"widget_setup_completed"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

type UpdateEnvironmentRequest struct {
	WidgetSetupCompleted bool `json:"widget_setup_completed"`
}

// Environment fetches an environment the session user can access.
func (c *Client) Environment(ctx context.Context, id uuid.UUID) (Environment, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/v2/environments/%s", id), nil)
	if err != nil {
		return Environment{}, err
	}
	if res.StatusCode != http.StatusOK {
		return Environment{}, readBodyAsError(res)
	}
	var env Environment
	return env, readJSON(res, &env)
}

// UpdateEnvironment patches mutable environment fields.
func (c *Client) UpdateEnvironment(ctx context.Context, id uuid.UUID, req UpdateEnvironmentRequest) (Environment, error) {
	res, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("/api/v2/environments/%s", id), req)
	if err != nil {
		return Environment{}, err
	}
	if res.StatusCode != http.StatusOK {
		return Environment{}, readBodyAsError(res)
	}
	var env Environment
	return env, readJSON(res, &env)
}
