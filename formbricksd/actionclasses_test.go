package formbricksd_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/formbricksd/formbrickstest"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

func TestActionClasses(t *testing.T) {
	t.Parallel()

	t.Run("BootstrapCreatesAutomatic", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)

		classes, err := client.ActionClassesByEnvironment(context.Background(), first.EnvironmentID)
		require.NoError(t, err)
		require.Len(t, classes, 1)
		require.Equal(t, "New Session", classes[0].Name)
		require.Equal(t, formbrickssdk.ClassTypeAutomatic, classes[0].Type)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)
		_ = formbrickstest.CreateActionClass(t, client, first.EnvironmentID, "Clicked Upgrade")

		_, err := client.CreateActionClass(context.Background(), first.EnvironmentID, formbrickssdk.CreateActionClassRequest{
			Name: "Clicked Upgrade",
			Type: formbrickssdk.ClassTypeCode,
		})
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusConflict, apiErr.StatusCode())
	})

	t.Run("AutomaticImmutable", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)

		classes, err := client.ActionClassesByEnvironment(context.Background(), first.EnvironmentID)
		require.NoError(t, err)
		automatic := classes[0]

		_, err = client.UpdateActionClass(context.Background(), automatic.ID, formbrickssdk.UpdateActionClassRequest{
			Name: "Renamed",
		})
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode())

		err = client.DeleteActionClass(context.Background(), automatic.ID)
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode())
	})

	t.Run("Count", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)

		for i := 0; i < 3; i++ {
			err := client.TrackAction(context.Background(), first.EnvironmentID, formbrickssdk.TrackActionRequest{
				Name: "Opened Dashboard",
			})
			require.NoError(t, err)
		}

		classes, err := client.ActionClassesByEnvironment(context.Background(), first.EnvironmentID)
		require.NoError(t, err)
		var tracked formbrickssdk.ActionClass
		for _, class := range classes {
			if class.Name == "Opened Dashboard" {
				tracked = class
			}
		}
		require.Equal(t, formbrickssdk.ClassTypeCode, tracked.Type)

		count, err := client.ActionClassCount(context.Background(), tracked.ID, formbrickssdk.CountWindowDay)
		require.NoError(t, err)
		require.EqualValues(t, 3, count.Count)
		require.Equal(t, formbrickssdk.CountWindowDay, count.Window)
	})

	t.Run("CountBadWindow", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)
		class := formbrickstest.CreateActionClass(t, client, first.EnvironmentID, "Anything")

		_, err := client.ActionClassCount(context.Background(), class.ID, "month")
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode())
	})
}
