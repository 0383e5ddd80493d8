package formbricksd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vikaspatil0021/formbricks/cryptorand"
	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpmw"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

func (api *API) webhooksByEnvironment(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	webhooks, err := api.Database.GetWebhooksByEnvironmentID(r.Context(), environment.ID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get webhooks: %s", err),
		})
		return
	}

	converted := make([]formbrickssdk.Webhook, 0, len(webhooks))
	for _, webhook := range webhooks {
		converted = append(converted, convertWebhook(webhook))
	}
	httpapi.Write(rw, http.StatusOK, converted)
}

func (api *API) postWebhook(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)

	var req formbrickssdk.CreateWebhookRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	secret := req.Secret
	if secret == "" {
		generated, err := cryptorand.HexString(32)
		if err != nil {
			httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
				Message: fmt.Sprintf("generate webhook secret: %s", err),
			})
			return
		}
		secret = "whsec_" + generated
	}

	now := time.Now()
	webhook, err := api.Database.InsertWebhook(r.Context(), database.InsertWebhookParams{
		ID:            uuid.New(),
		EnvironmentID: environment.ID,
		URL:           req.URL,
		Secret:        secret,
		Triggers:      convertTriggersToStrings(req.Triggers),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("insert webhook: %s", err),
		})
		return
	}
	httpapi.Write(rw, http.StatusCreated, convertWebhook(webhook))
}

func (api *API) webhook(rw http.ResponseWriter, r *http.Request) {
	webhook := httpmw.WebhookParam(r)
	httpapi.Write(rw, http.StatusOK, convertWebhook(webhook))
}

func (api *API) patchWebhook(rw http.ResponseWriter, r *http.Request) {
	webhook := httpmw.WebhookParam(r)

	var req formbrickssdk.UpdateWebhookRequest
	if !httpapi.Read(rw, r, &req) {
		return
	}

	updated, err := api.Database.UpdateWebhook(r.Context(), database.UpdateWebhookParams{
		ID:        webhook.ID,
		URL:       req.URL,
		Triggers:  convertTriggersToStrings(req.Triggers),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("update webhook: %s", err),
		})
		return
	}
	httpapi.Write(rw, http.StatusOK, convertWebhook(updated))
}

func (api *API) deleteWebhook(rw http.ResponseWriter, r *http.Request) {
	webhook := httpmw.WebhookParam(r)

	err := api.Database.DeleteWebhookByID(r.Context(), webhook.ID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("delete webhook: %s", err),
		})
		return
	}
	rw.WriteHeader(http.StatusNoContent)
}

func convertWebhook(webhook database.Webhook) formbrickssdk.Webhook {
	triggers := make([]formbrickssdk.WebhookTrigger, 0, len(webhook.Triggers))
	for _, trigger := range webhook.Triggers {
		triggers = append(triggers, formbrickssdk.WebhookTrigger(trigger))
	}
	return formbrickssdk.Webhook{
		ID:            webhook.ID,
		EnvironmentID: webhook.EnvironmentID,
		URL:           webhook.URL,
		Secret:        webhook.Secret,
		Triggers:      triggers,
		CreatedAt:     webhook.CreatedAt,
		UpdatedAt:     webhook.UpdatedAt,
	}
}

func convertTriggersToStrings(triggers []formbrickssdk.WebhookTrigger) []string {
	converted := make([]string, 0, len(triggers))
	for _, trigger := range triggers {
		converted = append(converted, string(trigger))
	}
	return converted
}
