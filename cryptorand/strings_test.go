package cryptorand_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/cryptorand"
)

func TestStringCharset(t *testing.T) {
	t.Parallel()

	t.Run("Length", func(t *testing.T) {
		t.Parallel()
		for _, size := range []int{0, 1, 16, 32, 64} {
			s, err := cryptorand.String(size)
			require.NoError(t, err)
			require.Len(t, s, size)
		}
	})

	t.Run("Charset", func(t *testing.T) {
		t.Parallel()
		s, err := cryptorand.StringCharset(cryptorand.Hex, 256)
		require.NoError(t, err)
		for _, c := range s {
			require.True(t, strings.ContainsRune(cryptorand.Hex, c), "unexpected character %q", c)
		}
	})

	t.Run("EmptyCharset", func(t *testing.T) {
		t.Parallel()
		_, err := cryptorand.StringCharset("", 8)
		require.Error(t, err)
	})

	t.Run("Unique", func(t *testing.T) {
		t.Parallel()
		seen := make(map[string]struct{})
		for i := 0; i < 100; i++ {
			s, err := cryptorand.HexString(32)
			require.NoError(t, err)
			_, ok := seen[s]
			require.False(t, ok, "duplicate random string")
			seen[s] = struct{}{}
		}
	})
}
