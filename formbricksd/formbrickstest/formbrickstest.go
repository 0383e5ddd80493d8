// Package formbrickstest spins up a full in-memory deployment for tests.
package formbrickstest

import (
	"context"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"cdr.dev/slog/sloggers/slogtest"

	"github.com/vikaspatil0021/formbricks/formbricksd"
	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/database/databasefake"
	"github.com/vikaspatil0021/formbricks/formbricksd/database/dbcache"
	"github.com/vikaspatil0021/formbricks/formbricksd/dispatch"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

// Options customizes the test deployment.
type Options struct {
	// Database overrides the in-memory fake.
	Database database.Store
	// Pubsub overrides the in-memory pubsub.
	Pubsub database.Pubsub
	// DisableCache serves reads straight from the store.
	DisableCache bool
	// Dispatcher overrides the default webhook dispatcher.
	Dispatcher *dispatch.Dispatcher
}

// New constructs a deployment and returns a client pointed at it.
func New(t *testing.T, options *Options) *formbrickssdk.Client {
	if options == nil {
		options = &Options{}
	}
	if options.Database == nil {
		options.Database = databasefake.New()
	}
	if options.Pubsub == nil {
		options.Pubsub = database.NewPubsubInMemory()
	}

	logger := slogtest.Make(t, nil)

	db := options.Database
	if !options.DisableCache {
		cached, err := dbcache.New(db, options.Pubsub, logger, nil)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = cached.Close()
		})
		db = cached
	}

	dispatcher := options.Dispatcher
	if dispatcher == nil {
		dispatcher = dispatch.New(db, dispatch.Options{
			Logger: logger,
		})
		t.Cleanup(dispatcher.Close)
	}

	api := formbricksd.New(&formbricksd.Options{
		Logger:     logger,
		Database:   db,
		Pubsub:     options.Pubsub,
		Dispatcher: dispatcher,
	})

	srv := httptest.NewServer(api.Handler)
	t.Cleanup(srv.Close)

	serverURL, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return formbrickssdk.New(serverURL)
}

// FirstUserParams are the credentials CreateFirstUser registers.
var FirstUserParams = formbrickssdk.CreateFirstUserRequest{
	Email:    "testuser@formbricks.com",
	Username: "testuser",
	Password: "SomeSecurePassword!",
}

// CreateFirstUser bootstraps the deployment and logs the client in.
func CreateFirstUser(t *testing.T, client *formbrickssdk.Client) formbrickssdk.CreateFirstUserResponse {
	first, err := client.CreateFirstUser(context.Background(), FirstUserParams)
	require.NoError(t, err)

	login, err := client.LoginWithPassword(context.Background(), formbrickssdk.LoginWithPasswordRequest{
		Email:    FirstUserParams.Email,
		Password: FirstUserParams.Password,
	})
	require.NoError(t, err)
	client.SessionToken = login.SessionToken
	return first
}

// CreateWebhook makes a webhook subscribed to every trigger.
func CreateWebhook(t *testing.T, client *formbrickssdk.Client, environmentID uuid.UUID, url string) formbrickssdk.Webhook {
	webhook, err := client.CreateWebhook(context.Background(), environmentID, formbrickssdk.CreateWebhookRequest{
		URL: url,
		Triggers: []formbrickssdk.WebhookTrigger{
			formbrickssdk.WebhookTriggerResponseCreated,
			formbrickssdk.WebhookTriggerResponseUpdated,
			formbrickssdk.WebhookTriggerResponseFinished,
		},
	})
	require.NoError(t, err)
	return webhook
}

// CreateActionClass makes a code action class.
func CreateActionClass(t *testing.T, client *formbrickssdk.Client, environmentID uuid.UUID, name string) formbrickssdk.ActionClass {
	class, err := client.CreateActionClass(context.Background(), environmentID, formbrickssdk.CreateActionClassRequest{
		Name: name,
		Type: formbrickssdk.ClassTypeCode,
	})
	require.NoError(t, err)
	return class
}

// CreateSurvey makes a survey and moves it to inProgress so the widget
// can see it.
func CreateSurvey(t *testing.T, client *formbrickssdk.Client, environmentID uuid.UUID, name string) formbrickssdk.Survey {
	survey, err := client.CreateSurvey(context.Background(), environmentID, formbrickssdk.CreateSurveyRequest{
		Name: name,
	})
	require.NoError(t, err)

	survey, err = client.UpdateSurvey(context.Background(), survey.ID, formbrickssdk.UpdateSurveyRequest{
		Name:   survey.Name,
		Status: formbrickssdk.SurveyStatusInProgress,
	})
	require.NoError(t, err)
	return survey
}
