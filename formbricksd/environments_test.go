package formbricksd_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/formbricksd/formbrickstest"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

func TestEnvironments(t *testing.T) {
	t.Parallel()

	t.Run("Get", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)

		environment, err := client.Environment(context.Background(), first.EnvironmentID)
		require.NoError(t, err)
		require.Equal(t, formbrickssdk.EnvironmentTypeProduction, environment.Type)
		require.Equal(t, first.ProductID, environment.ProductID)
	})

	t.Run("Patch", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)

		updated, err := client.UpdateEnvironment(context.Background(), first.EnvironmentID, formbrickssdk.UpdateEnvironmentRequest{
			WidgetSetupCompleted: true,
		})
		require.NoError(t, err)
		require.True(t, updated.WidgetSetupCompleted)

		// A subsequent read observes the write immediately, even with the
		// cache in front.
		environment, err := client.Environment(context.Background(), first.EnvironmentID)
		require.NoError(t, err)
		require.True(t, environment.WidgetSetupCompleted)
	})

	t.Run("Unknown", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		_ = formbrickstest.CreateFirstUser(t, client)

		_, err := client.Environment(context.Background(), uuid.New())
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusNotFound, apiErr.StatusCode())
	})
}
