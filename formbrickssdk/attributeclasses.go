package formbrickssdk

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type AttributeClass struct {
	ID            uuid.UUID `json:"id"`
	EnvironmentID uuid.UUID `json:"environment_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Type          ClassType `json:"type"`
	Archived      bool      `json:"archived"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UpdateAttributeClassRequest struct {
	Description string `json:"description"`
	Archived    bool   `json:"archived"`
}

func (c *Client) AttributeClassesByEnvironment(ctx context.Context, environmentID uuid.UUID) ([]AttributeClass, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/v2/environments/%s/attributeclasses", environmentID), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, readBodyAsError(res)
	}
	var classes []AttributeClass
	return classes, readJSON(res, &classes)
}

func (c *Client) AttributeClass(ctx context.Context, id uuid.UUID) (AttributeClass, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/v2/attributeclasses/%s", id), nil)
	if err != nil {
		return AttributeClass{}, err
	}
	if res.StatusCode != http.StatusOK {
		return AttributeClass{}, readBodyAsError(res)
	}
	var class AttributeClass
	return class, readJSON(res, &class)
}

func (c *Client) UpdateAttributeClass(ctx context.Context, id uuid.UUID, req UpdateAttributeClassRequest) (AttributeClass, error) {
	res, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("/api/v2/attributeclasses/%s", id), req)
	if err != nil {
		return AttributeClass{}, err
	}
	if res.StatusCode != http.StatusOK {
		return AttributeClass{}, readBodyAsError(res)
	}
	var class AttributeClass
	return class, readJSON(res, &class)
}
