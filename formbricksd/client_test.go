package formbricksd_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/database/databasefake"
	"github.com/vikaspatil0021/formbricks/formbricksd/dispatch"
	"github.com/vikaspatil0021/formbricks/formbricksd/formbrickstest"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
	"github.com/vikaspatil0021/formbricks/testutil"
)

func TestClientPeople(t *testing.T) {
	t.Parallel()

	t.Run("CreateAndList", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)

		person, err := client.CreateClientPerson(context.Background(), first.EnvironmentID)
		require.NoError(t, err)
		require.Equal(t, first.EnvironmentID, person.EnvironmentID)

		people, err := client.PeopleByEnvironment(context.Background(), first.EnvironmentID, 0, 0)
		require.NoError(t, err)
		require.Len(t, people, 1)
	})

	t.Run("MarksWidgetSetup", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)

		environment, err := client.Environment(context.Background(), first.EnvironmentID)
		require.NoError(t, err)
		require.False(t, environment.WidgetSetupCompleted)

		_, err = client.CreateClientPerson(context.Background(), first.EnvironmentID)
		require.NoError(t, err)

		environment, err = client.Environment(context.Background(), first.EnvironmentID)
		require.NoError(t, err)
		require.True(t, environment.WidgetSetupCompleted)
	})

	t.Run("Attributes", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)

		person, err := client.CreateClientPerson(context.Background(), first.EnvironmentID)
		require.NoError(t, err)

		err = client.SetClientAttribute(context.Background(), first.EnvironmentID, person.ID, formbrickssdk.SetAttributeRequest{
			Name:  "plan",
			Value: "pro",
		})
		require.NoError(t, err)

		// Setting again overwrites instead of duplicating.
		err = client.SetClientAttribute(context.Background(), first.EnvironmentID, person.ID, formbrickssdk.SetAttributeRequest{
			Name:  "plan",
			Value: "enterprise",
		})
		require.NoError(t, err)

		fetched, err := client.Person(context.Background(), person.ID)
		require.NoError(t, err)
		require.Len(t, fetched.Attributes, 1)
		require.Equal(t, "plan", fetched.Attributes[0].Name)
		require.Equal(t, "enterprise", fetched.Attributes[0].Value)
	})
}

func TestClientSurveys(t *testing.T) {
	t.Parallel()

	client := formbrickstest.New(t, nil)
	first := formbrickstest.CreateFirstUser(t, client)

	// Drafts stay invisible to the widget.
	_, err := client.CreateSurvey(context.Background(), first.EnvironmentID, formbrickssdk.CreateSurveyRequest{
		Name: "Draft Survey",
	})
	require.NoError(t, err)
	live := formbrickstest.CreateSurvey(t, client, first.EnvironmentID, "Live Survey")

	surveys, err := client.ClientSurveys(context.Background(), first.EnvironmentID)
	require.NoError(t, err)
	require.Len(t, surveys, 1)
	require.Equal(t, live.ID, surveys[0].ID)
}

func TestClientPersonScope(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := databasefake.New()
	client := formbrickstest.New(t, &formbrickstest.Options{Database: db})
	first := formbrickstest.CreateFirstUser(t, client)
	survey := formbrickstest.CreateSurvey(t, client, first.EnvironmentID, "NPS")

	// A person living in an unrelated environment. Its ID must not be
	// attributable through this environment's ingest routes.
	now := time.Now()
	team, err := db.InsertTeam(ctx, database.InsertTeamParams{
		ID: uuid.New(), Name: "other", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	product, err := db.InsertProduct(ctx, database.InsertProductParams{
		ID: uuid.New(), TeamID: team.ID, Name: "other app", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	otherEnv, err := db.InsertEnvironment(ctx, database.InsertEnvironmentParams{
		ID: uuid.New(), ProductID: product.ID, Type: database.EnvironmentTypeProduction,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	foreign, err := db.InsertPerson(ctx, database.InsertPersonParams{
		ID: uuid.New(), EnvironmentID: otherEnv.ID, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	requireNotFound := func(t *testing.T, err error) {
		t.Helper()
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusNotFound, apiErr.StatusCode())
	}

	t.Run("ActionForeignPerson", func(t *testing.T) {
		err := client.TrackAction(ctx, first.EnvironmentID, formbrickssdk.TrackActionRequest{
			Name:     "clicked",
			PersonID: &foreign.ID,
		})
		requireNotFound(t, err)
	})

	t.Run("ActionUnknownPerson", func(t *testing.T) {
		unknown := uuid.New()
		err := client.TrackAction(ctx, first.EnvironmentID, formbrickssdk.TrackActionRequest{
			Name:     "clicked",
			PersonID: &unknown,
		})
		requireNotFound(t, err)
	})

	t.Run("ResponseForeignPerson", func(t *testing.T) {
		_, err := client.CreateClientResponse(ctx, first.EnvironmentID, formbrickssdk.CreateResponseRequest{
			SurveyID: survey.ID,
			PersonID: &foreign.ID,
		})
		requireNotFound(t, err)
	})
}

func TestClientResponses(t *testing.T) {
	t.Parallel()

	t.Run("CreateAndUpdate", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)
		survey := formbrickstest.CreateSurvey(t, client, first.EnvironmentID, "NPS")

		response, err := client.CreateClientResponse(context.Background(), first.EnvironmentID, formbrickssdk.CreateResponseRequest{
			SurveyID: survey.ID,
			Data:     json.RawMessage(`{"q1":"9"}`),
		})
		require.NoError(t, err)
		require.False(t, response.Finished)

		updated, err := client.UpdateClientResponse(context.Background(), response.ID, formbrickssdk.UpdateResponseRequest{
			Finished: true,
			Data:     json.RawMessage(`{"q1":"9","q2":"fast support"}`),
		})
		require.NoError(t, err)
		require.True(t, updated.Finished)

		responses, err := client.SurveyResponses(context.Background(), survey.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, responses, 1)
	})

	t.Run("FinishedImmutable", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)
		survey := formbrickstest.CreateSurvey(t, client, first.EnvironmentID, "NPS")

		response, err := client.CreateClientResponse(context.Background(), first.EnvironmentID, formbrickssdk.CreateResponseRequest{
			SurveyID: survey.ID,
			Finished: true,
		})
		require.NoError(t, err)

		_, err = client.UpdateClientResponse(context.Background(), response.ID, formbrickssdk.UpdateResponseRequest{
			Data: json.RawMessage(`{"q1":"changed"}`),
		})
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode())
	})

	t.Run("UnknownSurvey", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)
		other := formbrickstest.New(t, nil)
		otherFirst := formbrickstest.CreateFirstUser(t, other)
		foreign := formbrickstest.CreateSurvey(t, other, otherFirst.EnvironmentID, "Foreign")

		_, err := client.CreateClientResponse(context.Background(), first.EnvironmentID, formbrickssdk.CreateResponseRequest{
			SurveyID: foreign.ID,
		})
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusNotFound, apiErr.StatusCode())
	})
}

func TestResponseWebhooks(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		events []dispatch.Event
	)
	hookServer := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var event dispatch.Event
		require.NoError(t, json.Unmarshal(body, &event))
		mu.Lock()
		events = append(events, event)
		mu.Unlock()
		rw.WriteHeader(http.StatusOK)
	}))
	defer hookServer.Close()

	client := formbrickstest.New(t, nil)
	first := formbrickstest.CreateFirstUser(t, client)
	survey := formbrickstest.CreateSurvey(t, client, first.EnvironmentID, "NPS")
	_ = formbrickstest.CreateWebhook(t, client, first.EnvironmentID, hookServer.URL)

	response, err := client.CreateClientResponse(context.Background(), first.EnvironmentID, formbrickssdk.CreateResponseRequest{
		SurveyID: survey.ID,
		Data:     json.RawMessage(`{"q1":"9"}`),
	})
	require.NoError(t, err)
	_, err = client.UpdateClientResponse(context.Background(), response.ID, formbrickssdk.UpdateResponseRequest{
		Finished: true,
	})
	require.NoError(t, err)

	triggers := func() map[string]int {
		mu.Lock()
		defer mu.Unlock()
		counts := map[string]int{}
		for _, event := range events {
			counts[string(event.Event)]++
		}
		return counts
	}
	require.Eventually(t, func() bool {
		counts := triggers()
		return counts["responseCreated"] == 1 &&
			counts["responseUpdated"] == 1 &&
			counts["responseFinished"] == 1
	}, testutil.WaitShort, testutil.IntervalFast)
}
