package formbricksd

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cdr.dev/slog"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpmw"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

// postClientPerson registers a widget visitor.
func (api *API) postClientPerson(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	now := time.Now()
	person, err := api.Database.InsertPerson(r.Context(), database.InsertPersonParams{
		ID:            uuid.New(),
		EnvironmentID: environment.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("insert person: %s", err),
		})
		return
	}

	api.markWidgetSetup(r, environment)
	httpapi.Write(rw, http.StatusCreated, convertPerson(person))
}

// postClientAttribute upserts an attribute by class name, creating a
// code attribute class on first use.
func (api *API) postClientAttribute(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	personID, err := uuid.Parse(chi.URLParam(r, "person"))
	if err != nil {
		httpapi.Write(rw, http.StatusBadRequest, httpapi.Response{
			Message: "person must be a uuid",
		})
		return
	}
	person, ok := api.environmentPerson(rw, r, environment, personID)
	if !ok {
		return
	}

	var req formbrickssdk.SetAttributeRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	class, err := api.findOrCreateAttributeClass(r, environment.ID, req.Name)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("resolve attribute class: %s", err),
		})
		return
	}

	now := time.Now()
	_, err = api.Database.UpsertAttribute(r.Context(), database.UpsertAttributeParams{
		ID:               uuid.New(),
		AttributeClassID: class.ID,
		PersonID:         person.ID,
		Value:            req.Value,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("upsert attribute: %s", err),
		})
		return
	}

	api.markWidgetSetup(r, environment)
	httpapi.Write(rw, http.StatusOK, httpapi.Response{
		Message: "attribute set",
	})
}

// postClientAction records an action, creating a code action class on
// first use.
func (api *API) postClientAction(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	var req formbrickssdk.TrackActionRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	class, err := api.findOrCreateActionClass(r, environment.ID, req.Name)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("resolve action class: %s", err),
		})
		return
	}

	personID := uuid.NullUUID{}
	if req.PersonID != nil {
		person, ok := api.environmentPerson(rw, r, environment, *req.PersonID)
		if !ok {
			return
		}
		personID = uuid.NullUUID{UUID: person.ID, Valid: true}
	}
	_, err = api.Database.InsertAction(r.Context(), database.InsertActionParams{
		ID:            uuid.New(),
		ActionClassID: class.ID,
		PersonID:      personID,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("insert action: %s", err),
		})
		return
	}

	api.markWidgetSetup(r, environment)
	httpapi.Write(rw, http.StatusCreated, httpapi.Response{
		Message: "action tracked",
	})
}

// clientSurveys returns the surveys the widget may display.
func (api *API) clientSurveys(rw http.ResponseWriter, r *http.Request) {
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
		if survey.Status != database.SurveyStatusInProgress {
			continue
		}
		converted = append(converted, convertSurvey(survey))
	}

	api.markWidgetSetup(r, environment)
	httpapi.Write(rw, http.StatusOK, converted)
}

func (api *API) postClientResponse(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	var req formbrickssdk.CreateResponseRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	survey, err := api.Database.GetSurveyByID(r.Context(), req.SurveyID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && survey.EnvironmentID != environment.ID) {
		httpapi.ResourceNotFound(rw, "survey")
		return
	}
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get survey: %s", err),
		})
		return
	}

	personID := uuid.NullUUID{}
	if req.PersonID != nil {
		person, ok := api.environmentPerson(rw, r, environment, *req.PersonID)
		if !ok {
			return
		}
		personID = uuid.NullUUID{UUID: person.ID, Valid: true}
	}
	now := time.Now()
	response, err := api.Database.InsertResponse(r.Context(), database.InsertResponseParams{
		ID:        uuid.New(),
		SurveyID:  survey.ID,
		PersonID:  personID,
		Finished:  req.Finished,
		Data:      req.Data,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("insert response: %s", err),
		})
		return
	}

	converted := convertResponse(response)
	api.fireTrigger(r, environment.ID, database.WebhookTriggerResponseCreated, converted)
	if response.Finished {
		api.fireTrigger(r, environment.ID, database.WebhookTriggerResponseFinished, converted)
	}

	api.markWidgetSetup(r, environment)
	httpapi.Write(rw, http.StatusCreated, converted)
}

func (api *API) putClientResponse(rw http.ResponseWriter, r *http.Request) {
	response := httpmw.ResponseParam(r)

	var req formbrickssdk.UpdateResponseRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	if response.Finished {
		httpapi.Write(rw, http.StatusBadRequest, httpapi.Response{
			Message: "a finished response cannot be modified",
		})
		return
	}

	updated, err := api.Database.UpdateResponse(r.Context(), database.UpdateResponseParams{
		ID:        response.ID,
		Finished:  req.Finished,
		Data:      req.Data,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("update response: %s", err),
		})
		return
	}

	// The environment ID comes from the survey for trigger routing.
	survey, err := api.Database.GetSurveyByID(r.Context(), updated.SurveyID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get survey: %s", err),
		})
		return
	}

	converted := convertResponse(updated)
	api.fireTrigger(r, survey.EnvironmentID, database.WebhookTriggerResponseUpdated, converted)
	if updated.Finished {
		api.fireTrigger(r, survey.EnvironmentID, database.WebhookTriggerResponseFinished, converted)
	}

	httpapi.Write(rw, http.StatusOK, converted)
}

// findOrCreateActionClass resolves a class by name, creating a code
// class for names the environment has never seen.
func (api *API) findOrCreateActionClass(r *http.Request, environmentID uuid.UUID, name string) (database.ActionClass, error) {
	class, err := api.Database.GetActionClassByEnvironmentIDAndName(r.Context(), database.GetActionClassByEnvironmentIDAndNameParams{
		EnvironmentID: environmentID,
		Name:          name,
	})
	if err == nil {
		return class, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return database.ActionClass{}, err
	}

	now := time.Now()
	class, err = api.Database.InsertActionClass(r.Context(), database.InsertActionClassParams{
		ID:            uuid.New(),
		EnvironmentID: environmentID,
		Name:          name,
		Type:          database.ClassTypeCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if database.IsUniqueViolation(err) {
		// Lost a create race, the class exists now.
		return api.Database.GetActionClassByEnvironmentIDAndName(r.Context(), database.GetActionClassByEnvironmentIDAndNameParams{
			EnvironmentID: environmentID,
			Name:          name,
		})
	}
	return class, err
}

func (api *API) findOrCreateAttributeClass(r *http.Request, environmentID uuid.UUID, name string) (database.AttributeClass, error) {
	class, err := api.Database.GetAttributeClassByEnvironmentIDAndName(r.Context(), database.GetAttributeClassByEnvironmentIDAndNameParams{
		EnvironmentID: environmentID,
		Name:          name,
	})
	if err == nil {
		return class, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return database.AttributeClass{}, err
	}

	now := time.Now()
	class, err = api.Database.InsertAttributeClass(r.Context(), database.InsertAttributeClassParams{
		ID:            uuid.New(),
		EnvironmentID: environmentID,
		Name:          name,
		Type:          database.ClassTypeCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if database.IsUniqueViolation(err) {
		return api.Database.GetAttributeClassByEnvironmentIDAndName(r.Context(), database.GetAttributeClassByEnvironmentIDAndNameParams{
			EnvironmentID: environmentID,
			Name:          name,
		})
	}
	return class, err
}

// environmentPerson resolves a client-supplied person ID and writes a 404
// when the person doesn't exist or belongs to another environment.
func (api *API) environmentPerson(rw http.ResponseWriter, r *http.Request, environment database.Environment, personID uuid.UUID) (database.Person, bool) {
	person, err := api.Database.GetPersonByID(r.Context(), personID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && person.EnvironmentID != environment.ID) {
		httpapi.ResourceNotFound(rw, "person")
		return database.Person{}, false
	}
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get person: %s", err),
		})
		return database.Person{}, false
	}
	return person, true
}

// markWidgetSetup records the first successful widget contact.
func (api *API) markWidgetSetup(r *http.Request, environment database.Environment) {
	if environment.WidgetSetupCompleted {
		return
	}
	_, err := api.Database.UpdateEnvironmentWidgetSetup(r.Context(), database.UpdateEnvironmentWidgetSetupParams{
		ID:                   environment.ID,
		WidgetSetupCompleted: true,
		UpdatedAt:            time.Now(),
	})
	if err != nil {
		api.Logger.Warn(r.Context(), "mark widget setup", slog.Error(err))
	}
}

// fireTrigger hands the event to the dispatcher when one is configured.
func (api *API) fireTrigger(r *http.Request, environmentID uuid.UUID, trigger database.WebhookTrigger, data interface{}) {
	if api.Dispatcher == nil {
		return
	}
	err := api.Dispatcher.Trigger(r.Context(), environmentID, trigger, data)
	if err != nil {
		api.Logger.Warn(r.Context(), "trigger webhooks",
			slog.F("trigger", trigger),
			slog.Error(err),
		)
	}
}
