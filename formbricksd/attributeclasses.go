package formbricksd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpmw"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

func (api *API) attributeClassesByEnvironment(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	classes, err := api.Database.GetAttributeClassesByEnvironmentID(r.Context(), environment.ID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get attribute classes: %s", err),
		})
		return
	}

	converted := make([]formbrickssdk.AttributeClass, 0, len(classes))
	for _, class := range classes {
		converted = append(converted, convertAttributeClass(class))
	}
	httpapi.Write(rw, http.StatusOK, converted)
}

func (api *API) attributeClass(rw http.ResponseWriter, r *http.Request) {
	class := httpmw.AttributeClassParam(r)
	httpapi.Write(rw, http.StatusOK, convertAttributeClass(class))
}

func (api *API) patchAttributeClass(rw http.ResponseWriter, r *http.Request) {
	class := httpmw.AttributeClassParam(r)

	var req formbrickssdk.UpdateAttributeClassRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	// Automatic classes keep working for ingest even when archived, the
	// flag only hides them from segment filters.
	updated, err := api.Database.UpdateAttributeClass(r.Context(), database.UpdateAttributeClassParams{
		ID:          class.ID,
		Description: req.Description,
		Archived:    req.Archived,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("update attribute class: %s", err),
		})
		return
	}
	httpapi.Write(rw, http.StatusOK, convertAttributeClass(updated))
}

func convertAttributeClass(class database.AttributeClass) formbrickssdk.AttributeClass {
	return formbrickssdk.AttributeClass{
		ID:            class.ID,
		EnvironmentID: class.EnvironmentID,
		Name:          class.Name,
		Description:   class.Description,
		Type:          formbrickssdk.ClassType(class.Type),
		Archived:      class.Archived,
		CreatedAt:     class.CreatedAt,
		UpdatedAt:     class.UpdatedAt,
	}
}
