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

type actionClassParamContextKey struct{}

// ActionClassParam returns the action class from the
// ExtractActionClassParam handler.
func ActionClassParam(r *http.Request) database.ActionClass {
	class, ok := r.Context().Value(actionClassParamContextKey{}).(database.ActionClass)
	if !ok {
		panic("developer error: action class param middleware not provided")
	}
	return class
}

// ExtractActionClassParam grabs an action class from the "actionclass" URL
// parameter and rejects users outside the owning team. Depends on
// ExtractAPIKey.
func ExtractActionClassParam(db database.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			classID, parsed := parseUUID(rw, r, "actionclass")
			if !parsed {
				return
			}
			class, err := db.GetActionClassByID(r.Context(), classID)
			if errors.Is(err, sql.ErrNoRows) {
				httpapi.ResourceNotFound(rw, "action class")
				return
			}
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("get action class: %s", err),
				})
				return
			}

			user := User(r)
			allowed, err := authz.CanUserAccessActionClass(r.Context(), db, user.ID, class)
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("check action class access: %s", err),
				})
				return
			}
			if !allowed {
				httpapi.Forbidden(rw)
				return
			}

			ctx := context.WithValue(r.Context(), actionClassParamContextKey{}, class)
			next.ServeHTTP(rw, r.WithContext(ctx))
		})
	}
}
