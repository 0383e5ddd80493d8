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

type environmentParamContextKey struct{}

// EnvironmentParam returns the environment from the
// ExtractEnvironmentParam handler.
func EnvironmentParam(r *http.Request) database.Environment {
	environment, ok := r.Context().Value(environmentParamContextKey{}).(database.Environment)
	if !ok {
		panic("developer error: environment param middleware not provided")
	}
	return environment
}

// ExtractEnvironmentParam grabs an environment from the "environment" URL
// parameter. It performs no access check: the public client API serves
// unauthenticated widget traffic scoped only by environment ID, and
// management routes check membership separately.
func ExtractEnvironmentParam(db database.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			environmentID, parsed := parseUUID(rw, r, "environment")
			if !parsed {
				return
			}
			environment, err := db.GetEnvironmentByID(r.Context(), environmentID)
			if errors.Is(err, sql.ErrNoRows) {
				httpapi.ResourceNotFound(rw, "environment")
				return
			}
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("get environment: %s", err),
				})
				return
			}

			ctx := context.WithValue(r.Context(), environmentParamContextKey{}, environment)
			next.ServeHTTP(rw, r.WithContext(ctx))
		})
	}
}
