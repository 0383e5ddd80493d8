package formbrickssdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SurveyStatus is the lifecycle state of a survey.
type SurveyStatus string

const (
	SurveyStatusDraft      SurveyStatus = "draft"
	SurveyStatusInProgress SurveyStatus = "inProgress"
	SurveyStatusPaused     SurveyStatus = "paused"
	SurveyStatusCompleted  SurveyStatus = "completed"
)

type Survey struct {
	ID            uuid.UUID       `json:"id"`
	EnvironmentID uuid.UUID       `json:"environment_id"`
	Name          string          `json:"name"`
	Status        SurveyStatus    `json:"status"`
	Questions     json.RawMessage `json:"questions"`
	TriggerNames  []string        `json:"trigger_names"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type CreateSurveyRequest struct {
	Name      string          `json:"name" validate:"required"`
	Questions json.RawMessage `json:"questions"`
	// TriggerNames are action class names that launch the survey in the
	// widget.
	TriggerNames []string `json:"trigger_names"`
}

type UpdateSurveyRequest struct {
	Name         string          `json:"name" validate:"required"`
	Status       SurveyStatus    `json:"status" validate:"required,oneof=draft inProgress paused completed"`
	Questions    json.RawMessage `json:"questions"`
	TriggerNames []string        `json:"trigger_names"`
}

type SurveyResponse struct {
	ID        uuid.UUID       `json:"id"`
	SurveyID  uuid.UUID       `json:"survey_id"`
	PersonID  *uuid.UUID      `json:"person_id,omitempty"`
	Finished  bool            `json:"finished"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (c *Client) SurveysByEnvironment(ctx context.Context, environmentID uuid.UUID) ([]Survey, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/v2/environments/%s/surveys", environmentID), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, readBodyAsError(res)
	}
	var surveys []Survey
	return surveys, readJSON(res, &surveys)
}

func (c *Client) CreateSurvey(ctx context.Context, environmentID uuid.UUID, req CreateSurveyRequest) (Survey, error) {
	res, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("/api/v2/environments/%s/surveys", environmentID), req)
	if err != nil {
		return Survey{}, err
	}
	if res.StatusCode != http.StatusCreated {
		return Survey{}, readBodyAsError(res)
	}
	var survey Survey
	return survey, readJSON(res, &survey)
}

func (c *Client) Survey(ctx context.Context, id uuid.UUID) (Survey, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/v2/surveys/%s", id), nil)
	if err != nil {
		return Survey{}, err
	}
	if res.StatusCode != http.StatusOK {
		return Survey{}, readBodyAsError(res)
	}
	var survey Survey
	return survey, readJSON(res, &survey)
}

func (c *Client) UpdateSurvey(ctx context.Context, id uuid.UUID, req UpdateSurveyRequest) (Survey, error) {
	res, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("/api/v2/surveys/%s", id), req)
	if err != nil {
		return Survey{}, err
	}
	if res.StatusCode != http.StatusOK {
		return Survey{}, readBodyAsError(res)
	}
	var survey Survey
	return survey, readJSON(res, &survey)
}

func (c *Client) DeleteSurvey(ctx context.Context, id uuid.UUID) error {
	res, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/api/v2/surveys/%s", id), nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		return readBodyAsError(res)
	}
	return nil
}

// SurveyResponses lists responses for a survey, newest first.
func (c *Client) SurveyResponses(ctx context.Context, surveyID uuid.UUID, limit, offset int) ([]SurveyResponse, error) {
	res, err := c.Request(ctx, http.MethodGet,
		fmt.Sprintf("/api/v2/surveys/%s/responses?limit=%d&offset=%d", surveyID, limit, offset), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, readBodyAsError(res)
	}
	var responses []SurveyResponse
	return responses, readJSON(res, &responses)
}
