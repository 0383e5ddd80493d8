package userpassword_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/formbricksd/userpassword"
)

func TestUserPassword(t *testing.T) {
	t.Parallel()

	t.Run("Match", func(t *testing.T) {
		t.Parallel()
		hashed, err := userpassword.Hash("hunter2!")
		require.NoError(t, err)
		equal, err := userpassword.Compare(hashed, "hunter2!")
		require.NoError(t, err)
		require.True(t, equal)
	})

	t.Run("Mismatch", func(t *testing.T) {
		t.Parallel()
		hashed, err := userpassword.Hash("hunter2!")
		require.NoError(t, err)
		equal, err := userpassword.Compare(hashed, "hunter3!")
		require.NoError(t, err)
		require.False(t, equal)
	})

	t.Run("MalformedHash", func(t *testing.T) {
		t.Parallel()
		_, err := userpassword.Compare("not-a-bcrypt-hash", "hunter2!")
		require.Error(t, err)
	})
}
