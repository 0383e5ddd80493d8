package formbrickssdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// The /api/client routes are unauthenticated. The in-app widget calls
// them with nothing but the environment ID baked into its snippet.

type TrackActionRequest struct {
	// Name is the action class name. A code class is created on first
	// use.
	Name     string     `json:"name" validate:"required"`
	PersonID *uuid.UUID `json:"person_id,omitempty"`
}

type CreateResponseRequest struct {
	SurveyID uuid.UUID       `json:"survey_id" validate:"required"`
	PersonID *uuid.UUID      `json:"person_id,omitempty"`
	Finished bool            `json:"finished"`
	Data     json.RawMessage `json:"data"`
}

type UpdateResponseRequest struct {
	Finished bool            `json:"finished"`
	Data     json.RawMessage `json:"data"`
}

// SetAttributeRequest upserts a person attribute by attribute class
// name. A code class is created on first use.
type SetAttributeRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// CreateClientPerson registers a new widget visitor.
func (c *Client) CreateClientPerson(ctx context.Context, environmentID uuid.UUID) (Person, error) {
	res, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("/api/client/%s/people", environmentID), nil)
	if err != nil {
		return Person{}, err
	}
	if res.StatusCode != http.StatusCreated {
		return Person{}, readBodyAsError(res)
	}
	var person Person
	return person, readJSON(res, &person)
}

// SetClientAttribute upserts an attribute value on a person.
func (c *Client) SetClientAttribute(ctx context.Context, environmentID, personID uuid.UUID, req SetAttributeRequest) error {
	res, err := c.Request(ctx, http.MethodPost,
		fmt.Sprintf("/api/client/%s/people/%s/attributes", environmentID, personID), req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return readBodyAsError(res)
	}
	return nil
}

// TrackAction records one occurrence of an action.
func (c *Client) TrackAction(ctx context.Context, environmentID uuid.UUID, req TrackActionRequest) error {
	res, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("/api/client/%s/actions", environmentID), req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		return readBodyAsError(res)
	}
	return nil
}

// ClientSurveys returns the inProgress surveys the widget may display.
func (c *Client) ClientSurveys(ctx context.Context, environmentID uuid.UUID) ([]Survey, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/client/%s/surveys", environmentID), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, readBodyAsError(res)
	}
	var surveys []Survey
	return surveys, readJSON(res, &surveys)
}

// CreateClientResponse starts (or completes) a survey response.
func (c *Client) CreateClientResponse(ctx context.Context, environmentID uuid.UUID, req CreateResponseRequest) (SurveyResponse, error) {
	res, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("/api/client/%s/responses", environmentID), req)
	if err != nil {
		return SurveyResponse{}, err
	}
	if res.StatusCode != http.StatusCreated {
		return SurveyResponse{}, readBodyAsError(res)
	}
	var response SurveyResponse
	return response, readJSON(res, &response)
}

// UpdateClientResponse amends an in-flight response.
func (c *Client) UpdateClientResponse(ctx context.Context, responseID uuid.UUID, req UpdateResponseRequest) (SurveyResponse, error) {
	res, err := c.Request(ctx, http.MethodPut, fmt.Sprintf("/api/client/responses/%s", responseID), req)
	if err != nil {
		return SurveyResponse{}, err
	}
	if res.StatusCode != http.StatusOK {
		return SurveyResponse{}, readBodyAsError(res)
	}
	var response SurveyResponse
	return response, readJSON(res, &response)
}
