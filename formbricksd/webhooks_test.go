package formbricksd_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/formbricksd/formbrickstest"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

func TestWebhooks(t *testing.T) {
	t.Parallel()

	t.Run("CreateGeneratesSecret", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)

		webhook := formbrickstest.CreateWebhook(t, client, first.EnvironmentID, "https://example.com/hook")
		require.True(t, strings.HasPrefix(webhook.Secret, "whsec_"))
		require.Len(t, webhook.Triggers, 3)
	})

	t.Run("ValidatesTriggers", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)

		_, err := client.CreateWebhook(context.Background(), first.EnvironmentID, formbrickssdk.CreateWebhookRequest{
			URL:      "https://example.com/hook",
			Triggers: []formbrickssdk.WebhookTrigger{"responseDeleted"},
		})
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode())
	})

	t.Run("Lifecycle", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)
		webhook := formbrickstest.CreateWebhook(t, client, first.EnvironmentID, "https://example.com/hook")

		webhooks, err := client.WebhooksByEnvironment(context.Background(), first.EnvironmentID)
		require.NoError(t, err)
		require.Len(t, webhooks, 1)

		updated, err := client.UpdateWebhook(context.Background(), webhook.ID, formbrickssdk.UpdateWebhookRequest{
			URL:      "https://example.com/hook2",
			Triggers: []formbrickssdk.WebhookTrigger{formbrickssdk.WebhookTriggerResponseFinished},
		})
		require.NoError(t, err)
		require.Equal(t, "https://example.com/hook2", updated.URL)
		require.Equal(t, webhook.Secret, updated.Secret)

		err = client.DeleteWebhook(context.Background(), webhook.ID)
		require.NoError(t, err)

		_, err = client.Webhook(context.Background(), webhook.ID)
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusNotFound, apiErr.StatusCode())
	})
}
