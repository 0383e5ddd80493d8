package formbricksd_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/formbricksd/formbrickstest"
)

func TestBuildInfo(t *testing.T) {
	t.Parallel()
	client := formbrickstest.New(t, nil)

	info, err := client.BuildInfo(context.Background())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(info.Version, "v"))
	require.NotEmpty(t, info.ExternalURL)
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	client := formbrickstest.New(t, nil)

	res, err := client.Request(context.Background(), "GET", "/healthz", nil)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, 200, res.StatusCode)
}
