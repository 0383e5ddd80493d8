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

type personParamContextKey struct{}

// PersonParam returns the person from the ExtractPersonParam handler.
func PersonParam(r *http.Request) database.Person {
	person, ok := r.Context().Value(personParamContextKey{}).(database.Person)
	if !ok {
		panic("developer error: person param middleware not provided")
	}
	return person
}

// ExtractPersonParam grabs a person from the "person" URL parameter and
// rejects users outside the owning team. Depends on ExtractAPIKey.
func ExtractPersonParam(db database.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			personID, parsed := parseUUID(rw, r, "person")
			if !parsed {
				return
			}
			person, err := db.GetPersonByID(r.Context(), personID)
			if errors.Is(err, sql.ErrNoRows) {
				httpapi.ResourceNotFound(rw, "person")
				return
			}
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("get person: %s", err),
				})
				return
			}

			user := User(r)
			allowed, err := authz.CanUserAccessPerson(r.Context(), db, user.ID, person)
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("check person access: %s", err),
				})
				return
			}
			if !allowed {
				httpapi.Forbidden(rw)
				return
			}

			ctx := context.WithValue(r.Context(), personParamContextKey{}, person)
			next.ServeHTTP(rw, r.WithContext(ctx))
		})
	}
}
