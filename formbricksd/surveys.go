package formbricksd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpmw"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

func (api *API) surveysByEnvironment(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	surveys, err := api.Database.GetSurveysByEnvironmentID(r.Context(), environment.ID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get surveys: %s", err),
		})
		return
	}

	converted := make([]formbrickssdk.Survey, 0, len(surveys))
	for _, survey := range surveys {
		converted = append(converted, convertSurvey(survey))
	}
	httpapi.Write(rw, http.StatusOK, converted)
}

func (api *API) postSurvey(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	var req formbrickssdk.CreateSurveyRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	now := time.Now()
	survey, err := api.Database.InsertSurvey(r.Context(), database.InsertSurveyParams{
		ID:            uuid.New(),
		EnvironmentID: environment.ID,
		Name:          req.Name,
		Status:        database.SurveyStatusDraft,
		Questions:     req.Questions,
		TriggerNames:  req.TriggerNames,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("insert survey: %s", err),
		})
		return
	}
	httpapi.Write(rw, http.StatusCreated, convertSurvey(survey))
}

func (api *API) survey(rw http.ResponseWriter, r *http.Request) {
	survey := httpmw.SurveyParam(r)
	httpapi.Write(rw, http.StatusOK, convertSurvey(survey))
}

func (api *API) patchSurvey(rw http.ResponseWriter, r *http.Request) {
	survey := httpmw.SurveyParam(r)

	var req formbrickssdk.UpdateSurveyRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	updated, err := api.Database.UpdateSurvey(r.Context(), database.UpdateSurveyParams{
		ID:           survey.ID,
		Name:         req.Name,
		Status:       database.SurveyStatus(req.Status),
		Questions:    req.Questions,
		TriggerNames: req.TriggerNames,
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("update survey: %s", err),
		})
		return
	}
	httpapi.Write(rw, http.StatusOK, convertSurvey(updated))
}

func (api *API) deleteSurvey(rw http.ResponseWriter, r *http.Request) {
	survey := httpmw.SurveyParam(r)

	err := api.Database.DeleteSurveyByID(r.Context(), survey.ID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("delete survey: %s", err),
		})
		return
	}
	rw.WriteHeader(http.StatusNoContent)
}

func (api *API) surveyResponses(rw http.ResponseWriter, r *http.Request) {
	survey := httpmw.SurveyParam(r)
	limit, offset := paginationParams(r)

	responses, err := api.Database.GetResponsesBySurveyID(r.Context(), database.GetResponsesBySurveyIDParams{
		SurveyID: survey.ID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get responses: %s", err),
		})
		return
	}

	converted := make([]formbrickssdk.SurveyResponse, 0, len(responses))
	for _, response := range responses {
		converted = append(converted, convertResponse(response))
	}
	httpapi.Write(rw, http.StatusOK, converted)
}

func convertSurvey(survey database.Survey) formbrickssdk.Survey {
	return formbrickssdk.Survey{
		ID:            survey.ID,
		EnvironmentID: survey.EnvironmentID,
		Name:          survey.Name,
		Status:        formbrickssdk.SurveyStatus(survey.Status),
		Questions:     survey.Questions,
		TriggerNames:  survey.TriggerNames,
		CreatedAt:     survey.CreatedAt,
		UpdatedAt:     survey.UpdatedAt,
	}
}

func convertResponse(response database.Response) formbrickssdk.SurveyResponse {
	converted := formbrickssdk.SurveyResponse{
		ID:        response.ID,
		SurveyID:  response.SurveyID,
		Finished:  response.Finished,
		Data:      response.Data,
		CreatedAt: response.CreatedAt,
		UpdatedAt: response.UpdatedAt,
	}
	if response.PersonID.Valid {
		personID := response.PersonID.UUID
		converted.PersonID = &personID
	}
	return converted
}
