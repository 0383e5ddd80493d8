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

func (api *API) environment(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)
	httpapi.Write(rw, http.StatusOK, convertEnvironment(environment))
}

func (api *API) patchEnvironment(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	var req formbrickssdk.UpdateEnvironmentRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	updated, err := api.Database.UpdateEnvironmentWidgetSetup(r.Context(), database.UpdateEnvironmentWidgetSetupParams{
		ID:                   environment.ID,
		WidgetSetupCompleted: req.WidgetSetupCompleted,
		UpdatedAt:            time.Now(),
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("update environment: %s", err),
		})
		return
	}
	httpapi.Write(rw, http.StatusOK, convertEnvironment(updated))
}

func convertEnvironment(environment database.Environment) formbrickssdk.Environment {
	return formbrickssdk.Environment{
		ID:                   environment.ID,
		ProductID:            environment.ProductID,
		Type:                 formbrickssdk.EnvironmentType(environment.Type),
		WidgetSetupCompleted: environment.WidgetSetupCompleted,
		CreatedAt:            environment.CreatedAt,
		UpdatedAt:            environment.UpdatedAt,
	}
}
