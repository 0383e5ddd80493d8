package httpmw

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/vikaspatil0021/formbricks/formbricksd/authz"
	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
)

type surveyParamContextKey struct{}

// SurveyParam returns the survey from the ExtractSurveyParam handler.
func SurveyParam(r *http.Request) database.Survey {
	survey, ok := r.Context().Value(surveyParamContextKey{}).(database.Survey)
	if !ok {
		panic("developer error: survey param middleware not provided")
	}
	return survey
}

// ExtractSurveyParam grabs a survey from the "survey" URL parameter and
// rejects users outside the owning team. Depends on ExtractAPIKey.
func ExtractSurveyParam(db database.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			surveyID, parsed := parseUUID(rw, r, "survey")
			if !parsed {
				return
			}
			survey, err := db.GetSurveyByID(r.Context(), surveyID)
			if errors.Is(err, sql.ErrNoRows) {
				httpapi.ResourceNotFound(rw, "survey")
				return
			}
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("get survey: %s", err),
				})
				return
			}

			user := User(r)
			allowed, err := authz.CanUserAccessSurvey(r.Context(), db, user.ID, survey)
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("check survey access: %s", err),
				})
				return
			}
			if !allowed {
				httpapi.Forbidden(rw)
				return
			}

			ctx := context.WithValue(r.Context(), surveyParamContextKey{}, survey)
			next.ServeHTTP(rw, r.WithContext(ctx))
		})
	}
}
