package formbricksd_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/formbricksd/formbrickstest"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

func TestFirstUser(t *testing.T) {
	t.Parallel()

	t.Run("Create", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		first := formbrickstest.CreateFirstUser(t, client)
		require.NotEqual(t, first.UserID.String(), "")
		require.NotEqual(t, first.EnvironmentID.String(), "")

		user, err := client.User(context.Background())
		require.NoError(t, err)
		require.Equal(t, formbrickstest.FirstUserParams.Email, user.Email)
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		_ = formbrickstest.CreateFirstUser(t, client)

		_, err := client.CreateFirstUser(context.Background(), formbrickssdk.CreateFirstUserRequest{
			Email:    "another@formbricks.com",
			Username: "another",
			Password: "SomeSecurePassword!",
		})
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusConflict, apiErr.StatusCode())
	})

	t.Run("Concurrent", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)

		// Both racers observe an empty users table unless the gate shares
		// the bootstrap transaction. Exactly one may win.
		errs := make(chan error, 2)
		for i, email := range []string{"one@formbricks.com", "two@formbricks.com"} {
			i, email := i, email
			go func() {
				_, err := client.CreateFirstUser(context.Background(), formbrickssdk.CreateFirstUserRequest{
					Email:    email,
					Username: fmt.Sprintf("user%d", i),
					Password: "SomeSecurePassword!",
				})
				errs <- err
			}()
		}

		var conflicts int
		for i := 0; i < 2; i++ {
			err := <-errs
			if err == nil {
				continue
			}
			var apiErr *formbrickssdk.Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, http.StatusConflict, apiErr.StatusCode())
			conflicts++
		}
		require.Equal(t, 1, conflicts)
	})

	t.Run("BadRequest", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		_, err := client.CreateFirstUser(context.Background(), formbrickssdk.CreateFirstUserRequest{
			Email:    "not-an-email",
			Username: "testuser",
			Password: "short",
		})
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode())
		require.NotEmpty(t, apiErr.Errors)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("BadPassword", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		_ = formbrickstest.CreateFirstUser(t, client)

		_, err := client.LoginWithPassword(context.Background(), formbrickssdk.LoginWithPasswordRequest{
			Email:    formbrickstest.FirstUserParams.Email,
			Password: "definitely-wrong",
		})
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode())
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		_ = formbrickstest.CreateFirstUser(t, client)

		_, err := client.LoginWithPassword(context.Background(), formbrickssdk.LoginWithPasswordRequest{
			Email:    "nobody@formbricks.com",
			Password: "SomeSecurePassword!",
		})
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode())
	})

	t.Run("NoSession", func(t *testing.T) {
		t.Parallel()
		client := formbrickstest.New(t, nil)
		_, err := client.User(context.Background())
		var apiErr *formbrickssdk.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode())
	})
}
