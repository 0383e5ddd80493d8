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

func (api *API) actionClassesByEnvironment(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	classes, err := api.Database.GetActionClassesByEnvironmentID(r.Context(), environment.ID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get action classes: %s", err),
		})
		return
	}

	converted := make([]formbrickssdk.ActionClass, 0, len(classes))
	for _, class := range classes {
		converted = append(converted, convertActionClass(class))
	}
	httpapi.Write(rw, http.StatusOK, converted)
}

func (api *API) postActionClass(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	var req formbrickssdk.CreateActionClassRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	now := time.Now()
	class, err := api.Database.InsertActionClass(r.Context(), database.InsertActionClassParams{
		ID:            uuid.New(),
		EnvironmentID: environment.ID,
		Name:          req.Name,
		Description:   req.Description,
		Type:          database.ClassType(req.Type),
		NoCodeConfig:  req.NoCodeConfig,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if database.IsUniqueViolation(err) {
		httpapi.Write(rw, http.StatusConflict, httpapi.Response{
			Message: fmt.Sprintf("an action class named %q already exists in this environment", req.Name),
		})
		return
	}
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("insert action class: %s", err),
		})
		return
	}
	httpapi.Write(rw, http.StatusCreated, convertActionClass(class))
}

func (api *API) actionClass(rw http.ResponseWriter, r *http.Request) {
	class := httpmw.ActionClassParam(r)
	httpapi.Write(rw, http.StatusOK, convertActionClass(class))
}

func (api *API) patchActionClass(rw http.ResponseWriter, r *http.Request) {
	class := httpmw.ActionClassParam(r)

	if class.Type == database.ClassTypeAutomatic {
		httpapi.Write(rw, http.StatusBadRequest, httpapi.Response{
			Message: "automatic action classes cannot be modified",
		})
		return
	}

	var req formbrickssdk.UpdateActionClassRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	updated, err := api.Database.UpdateActionClass(r.Context(), database.UpdateActionClassParams{
		ID:           class.ID,
		Name:         req.Name,
		Description:  req.Description,
		NoCodeConfig: req.NoCodeConfig,
		UpdatedAt:    time.Now(),
	})
	if database.IsUniqueViolation(err) {
		httpapi.Write(rw, http.StatusConflict, httpapi.Response{
			Message: fmt.Sprintf("an action class named %q already exists in this environment", req.Name),
		})
		return
	}
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("update action class: %s", err),
		})
		return
	}
	httpapi.Write(rw, http.StatusOK, convertActionClass(updated))
}

func (api *API) deleteActionClass(rw http.ResponseWriter, r *http.Request) {
	class := httpmw.ActionClassParam(r)

	if class.Type == database.ClassTypeAutomatic {
		httpapi.Write(rw, http.StatusBadRequest, httpapi.Response{
			Message: "automatic action classes cannot be deleted",
		})
		return
	}

	err := api.Database.DeleteActionClassByID(r.Context(), class.ID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("delete action class: %s", err),
		})
		return
	}
	rw.WriteHeader(http.StatusNoContent)
}

func (api *API) actionClassCount(rw http.ResponseWriter, r *http.Request) {
	class := httpmw.ActionClassParam(r)

	window := formbrickssdk.CountWindow(r.URL.Query().Get("window"))
	if window == "" {
		window = formbrickssdk.CountWindowDay
	}

	var lookback time.Duration
	switch window {
	case formbrickssdk.CountWindowHour:
		lookback = time.Hour
	case formbrickssdk.CountWindowDay:
		lookback = 24 * time.Hour
	case formbrickssdk.CountWindowWeek:
		lookback = 7 * 24 * time.Hour
	default:
		httpapi.Write(rw, http.StatusBadRequest, httpapi.Response{
			Message: "window must be one of hour, day or week",
		})
		return
	}

	// The cutoff is truncated so repeated calls within the same minute
	// share a cache entry.
	since := time.Now().Add(-lookback).Truncate(time.Minute)
	count, err := api.Database.GetActionCountSince(r.Context(), database.GetActionCountSinceParams{
		ActionClassID: class.ID,
		Since:         since,
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("count actions: %s", err),
		})
		return
	}
	httpapi.Write(rw, http.StatusOK, formbrickssdk.ActionCount{
		Count:  count,
		Window: window,
		Since:  since,
	})
}

func convertActionClass(class database.ActionClass) formbrickssdk.ActionClass {
	return formbrickssdk.ActionClass{
		ID:            class.ID,
		EnvironmentID: class.EnvironmentID,
		Name:          class.Name,
		Description:   class.Description,
		Type:          formbrickssdk.ClassType(class.Type),
		NoCodeConfig:  class.NoCodeConfig,
		CreatedAt:     class.CreatedAt,
		UpdatedAt:     class.UpdatedAt,
	}
}
