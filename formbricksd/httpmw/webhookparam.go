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

type webhookParamContextKey struct{}

// WebhookParam returns the webhook from the ExtractWebhookParam handler.
func WebhookParam(r *http.Request) database.Webhook {
	webhook, ok := r.Context().Value(webhookParamContextKey{}).(database.Webhook)
	if !ok {
		panic("developer error: webhook param middleware not provided")
	}
	return webhook
}

// ExtractWebhookParam grabs a webhook from the "webhook" URL parameter and
// rejects users outside the owning team. Depends on ExtractAPIKey.
func ExtractWebhookParam(db database.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			webhookID, parsed := parseUUID(rw, r, "webhook")
			if !parsed {
				return
			}
			webhook, err := db.GetWebhookByID(r.Context(), webhookID)
			if errors.Is(err, sql.ErrNoRows) {
				httpapi.ResourceNotFound(rw, "webhook")
				return
			}
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("get webhook: %s", err),
				})
				return
			}

			user := User(r)
			allowed, err := authz.CanUserAccessWebhook(r.Context(), db, user.ID, webhook)
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("check webhook access: %s", err),
				})
				return
			}
			if !allowed {
				httpapi.Forbidden(rw)
				return
			}

			ctx := context.WithValue(r.Context(), webhookParamContextKey{}, webhook)
			next.ServeHTTP(rw, r.WithContext(ctx))
		})
	}
}
