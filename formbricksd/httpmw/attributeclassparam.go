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

type attributeClassParamContextKey struct{}

// AttributeClassParam returns the attribute class from the
// ExtractAttributeClassParam handler.
func AttributeClassParam(r *http.Request) database.AttributeClass {
	class, ok := r.Context().Value(attributeClassParamContextKey{}).(database.AttributeClass)
	if !ok {
		panic("developer error: attribute class param middleware not provided")
	}
	return class
}

// ExtractAttributeClassParam grabs an attribute class from the
// "attributeclass" URL parameter and rejects users outside the owning
// team. Depends on ExtractAPIKey.
func ExtractAttributeClassParam(db database.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			classID, parsed := parseUUID(rw, r, "attributeclass")
			if !parsed {
				return
			}
			class, err := db.GetAttributeClassByID(r.Context(), classID)
			if errors.Is(err, sql.ErrNoRows) {
				httpapi.ResourceNotFound(rw, "attribute class")
				return
			}
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("get attribute class: %s", err),
				})
				return
			}

			user := User(r)
			allowed, err := authz.CanUserAccessAttributeClass(r.Context(), db, user.ID, class)
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("check attribute class access: %s", err),
				})
				return
			}
			if !allowed {
				httpapi.Forbidden(rw)
				return
			}

			ctx := context.WithValue(r.Context(), attributeClassParamContextKey{}, class)
			next.ServeHTTP(rw, r.WithContext(ctx))
		})
	}
}
