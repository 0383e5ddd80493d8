package formbrickssdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ClassType describes how an action or attribute class came to exist.
type ClassType string

const (
	ClassTypeCode      ClassType = "code"
	ClassTypeNoCode    ClassType = "noCode"
	ClassTypeAutomatic ClassType = "automatic"
)

// CountWindow is a fixed lookback for action counts.
type CountWindow string

const (
	CountWindowHour CountWindow = "hour"
	CountWindowDay  CountWindow = "day"
	CountWindowWeek CountWindow = "week"
)

type ActionClass struct {
	ID            uuid.UUID       `json:"id"`
	EnvironmentID uuid.UUID       `json:"environment_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Type          ClassType       `json:"type"`
	NoCodeConfig  json.RawMessage `json:"no_code_config"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type CreateActionClassRequest struct {
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description"`
	Type         ClassType       `json:"type" validate:"required,oneof=code noCode"`
	NoCodeConfig json.RawMessage `json:"no_code_config"`
}

type UpdateActionClassRequest struct {
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description"`
	NoCodeConfig json.RawMessage `json:"no_code_config"`
}

// ActionCount is the number of occurrences of an action class since a
// fixed cutoff.
type ActionCount struct {
	Count  int64       `json:"count"`
	Window CountWindow `json:"window"`
	Since  time.Time   `json:"since"`
}

func (c *Client) ActionClassesByEnvironment(ctx context.Context, environmentID uuid.UUID) ([]ActionClass, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/v2/environments/%s/actionclasses", environmentID), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, readBodyAsError(res)
	}
	var classes []ActionClass
	return classes, readJSON(res, &classes)
}

func (c *Client) CreateActionClass(ctx context.Context, environmentID uuid.UUID, req CreateActionClassRequest) (ActionClass, error) {
	res, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("/api/v2/environments/%s/actionclasses", environmentID), req)
	if err != nil {
		return ActionClass{}, err
	}
	if res.StatusCode != http.StatusCreated {
		return ActionClass{}, readBodyAsError(res)
	}
	var class ActionClass
	return class, readJSON(res, &class)
}

func (c *Client) ActionClass(ctx context.Context, id uuid.UUID) (ActionClass, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/v2/actionclasses/%s", id), nil)
	if err != nil {
		return ActionClass{}, err
	}
	if res.StatusCode != http.StatusOK {
		return ActionClass{}, readBodyAsError(res)
	}
	var class ActionClass
	return class, readJSON(res, &class)
}

func (c *Client) UpdateActionClass(ctx context.Context, id uuid.UUID, req UpdateActionClassRequest) (ActionClass, error) {
	res, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("/api/v2/actionclasses/%s", id), req)
	if err != nil {
		return ActionClass{}, err
	}
	if res.StatusCode != http.StatusOK {
		return ActionClass{}, readBodyAsError(res)
	}
	var class ActionClass
	return class, readJSON(res, &class)
}

func (c *Client) DeleteActionClass(ctx context.Context, id uuid.UUID) error {
	res, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/api/v2/actionclasses/%s", id), nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		return readBodyAsError(res)
	}
	return nil
}

// ActionClassCount returns how many times the action fired within the
// window.
func (c *Client) ActionClassCount(ctx context.Context, id uuid.UUID, window CountWindow) (ActionCount, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/v2/actionclasses/%s/count?window=%s", id, window), nil)
	if err != nil {
		return ActionCount{}, err
	}
	if res.StatusCode != http.StatusOK {
		return ActionCount{}, readBodyAsError(res)
	}
	var count ActionCount
	return count, readJSON(res, &count)
}
