package dispatch_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"cdr.dev/slog/sloggers/slogtest"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/database/databasefake"
	"github.com/vikaspatil0021/formbricks/formbricksd/dispatch"
)

func insertWebhook(t *testing.T, db database.Store, environmentID uuid.UUID, url, secret string, triggers ...string) database.Webhook {
	t.Helper()
	webhook, err := db.InsertWebhook(context.Background(), database.InsertWebhookParams{
		ID:            uuid.New(),
		EnvironmentID: environmentID,
		URL:           url,
		Secret:        secret,
		Triggers:      triggers,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	})
	require.NoError(t, err)
	return webhook
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	t.Run("DeliversSignedEvent", func(t *testing.T) {
		t.Parallel()
		db := databasefake.New()
		environmentID := uuid.New()

		type received struct {
			body      []byte
			signature string
		}
		got := make(chan received, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			got <- received{body: body, signature: r.Header.Get(dispatch.SignatureHeader)}
			rw.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		webhook := insertWebhook(t, db, environmentID, srv.URL, "whsec_test", string(database.WebhookTriggerResponseCreated))

		d := dispatch.New(db, dispatch.Options{
			Logger: slogtest.Make(t, nil),
		})
		err := d.Trigger(context.Background(), environmentID, database.WebhookTriggerResponseCreated, map[string]string{"surveyId": "s1"})
		require.NoError(t, err)
		d.Close()

		select {
		case r := <-got:
			require.True(t, dispatch.VerifySignature("whsec_test", r.body, r.signature))
			var event dispatch.Event
			require.NoError(t, json.Unmarshal(r.body, &event))
			require.Equal(t, webhook.ID, event.WebhookID)
			require.Equal(t, database.WebhookTriggerResponseCreated, event.Event)
		default:
			t.Fatal("no delivery received")
		}
	})

	t.Run("SkipsUnsubscribedTriggers", func(t *testing.T) {
		t.Parallel()
		db := databasefake.New()
		environmentID := uuid.New()

		var hits int64
		srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			atomic.AddInt64(&hits, 1)
			rw.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		insertWebhook(t, db, environmentID, srv.URL, "", string(database.WebhookTriggerResponseFinished))

		d := dispatch.New(db, dispatch.Options{
			Logger: slogtest.Make(t, nil),
		})
		err := d.Trigger(context.Background(), environmentID, database.WebhookTriggerResponseCreated, nil)
		require.NoError(t, err)
		d.Close()

		require.EqualValues(t, 0, atomic.LoadInt64(&hits))
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		t.Parallel()
		db := databasefake.New()
		environmentID := uuid.New()

		var hits int64
		srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			if atomic.AddInt64(&hits, 1) < 3 {
				rw.WriteHeader(http.StatusBadGateway)
				return
			}
			rw.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		insertWebhook(t, db, environmentID, srv.URL, "", string(database.WebhookTriggerResponseCreated))

		d := dispatch.New(db, dispatch.Options{
			Logger:     slogtest.Make(t, nil),
			MaxElapsed: 10 * time.Second,
		})
		err := d.Trigger(context.Background(), environmentID, database.WebhookTriggerResponseCreated, nil)
		require.NoError(t, err)
		d.Close()

		require.GreaterOrEqual(t, atomic.LoadInt64(&hits), int64(3))
	})

	t.Run("DoesNotRetryClientErrors", func(t *testing.T) {
		t.Parallel()
		db := databasefake.New()
		environmentID := uuid.New()

		var hits int64
		srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			atomic.AddInt64(&hits, 1)
			rw.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		insertWebhook(t, db, environmentID, srv.URL, "", string(database.WebhookTriggerResponseCreated))

		d := dispatch.New(db, dispatch.Options{
			Logger: slogtest.Make(t, nil),
		})
		err := d.Trigger(context.Background(), environmentID, database.WebhookTriggerResponseCreated, nil)
		require.NoError(t, err)
		d.Close()

		require.EqualValues(t, 1, atomic.LoadInt64(&hits))
	})
}

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	body := []byte(`{"event":"responseCreated"}`)
	sig := dispatch.Signature("secret", body)
	require.True(t, dispatch.VerifySignature("secret", body, sig))
	require.False(t, dispatch.VerifySignature("wrong", body, sig))
	require.False(t, dispatch.VerifySignature("secret", []byte("tampered"), sig))
}
