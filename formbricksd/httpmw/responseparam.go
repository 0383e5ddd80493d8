package httpmw

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
)

type responseParamContextKey struct{}

// ResponseParam returns the survey response from the ExtractResponseParam
// handler.
func ResponseParam(r *http.Request) database.Response {
	response, ok := r.Context().Value(responseParamContextKey{}).(database.Response)
	if !ok {
		panic("developer error: response param middleware not provided")
	}
	return response
}

// ExtractResponseParam grabs a survey response from the "response" URL
// parameter. It performs no access check: the widget updates its own
// in-flight response without a session.
func ExtractResponseParam(db database.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			responseID, parsed := parseUUID(rw, r, "response")
			if !parsed {
				return
			}
			response, err := db.GetResponseByID(r.Context(), responseID)
			if errors.Is(err, sql.ErrNoRows) {
				httpapi.ResourceNotFound(rw, "response")
				return
			}
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("get response: %s", err),
				})
				return
			}

			ctx := context.WithValue(r.Context(), responseParamContextKey{}, response)
			next.ServeHTTP(rw, r.WithContext(ctx))
		})
	}
}
