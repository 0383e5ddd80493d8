package cliflag_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/cli/cliflag"
	"github.com/vikaspatil0021/formbricks/cryptorand"
)

// TestCliflag cannot run in parallel because it uses t.Setenv.
//
//nolint:paralleltest
func TestCliflag(t *testing.T) {
	t.Run("StringDefault", func(t *testing.T) {
		flagset, name, shorthand, env, usage := randomFlag(t)
		def, _ := cryptorand.String(10)
		cliflag.String(flagset, name, shorthand, env, def, usage)
		got, err := flagset.GetString(name)
		require.NoError(t, err)
		require.Equal(t, def, got)
		require.Contains(t, flagset.FlagUsages(), usage)
		require.Contains(t, flagset.FlagUsages(), fmt.Sprintf("Consumes $%s", env))
	})

	t.Run("StringEnvVar", func(t *testing.T) {
		flagset, name, shorthand, env, usage := randomFlag(t)
		envValue, _ := cryptorand.String(10)
		t.Setenv(env, envValue)
		def, _ := cryptorand.String(10)
		cliflag.String(flagset, name, shorthand, env, def, usage)
		got, err := flagset.GetString(name)
		require.NoError(t, err)
		require.Equal(t, envValue, got)
	})

	t.Run("StringVarPEnvVar", func(t *testing.T) {
		var ptr string
		flagset, name, shorthand, env, usage := randomFlag(t)
		envValue, _ := cryptorand.String(10)
		t.Setenv(env, envValue)
		def, _ := cryptorand.String(10)
		cliflag.StringVarP(flagset, &ptr, name, shorthand, env, def, usage)
		got, err := flagset.GetString(name)
		require.NoError(t, err)
		require.Equal(t, envValue, got)
	})

	t.Run("EmptyEnvVar", func(t *testing.T) {
		var ptr string
		flagset, name, shorthand, _, usage := randomFlag(t)
		def, _ := cryptorand.String(10)
		cliflag.StringVarP(flagset, &ptr, name, shorthand, "", def, usage)
		got, err := flagset.GetString(name)
		require.NoError(t, err)
		require.Equal(t, def, got)
		require.NotContains(t, flagset.FlagUsages(), "Consumes")
	})

	t.Run("IntEnvVar", func(t *testing.T) {
		var ptr int
		flagset, name, shorthand, env, usage := randomFlag(t)
		t.Setenv(env, "7")
		cliflag.IntVarP(flagset, &ptr, name, shorthand, env, 3, usage)
		got, err := flagset.GetInt(name)
		require.NoError(t, err)
		require.Equal(t, 7, got)
	})

	t.Run("IntFailParse", func(t *testing.T) {
		var ptr int
		flagset, name, shorthand, env, usage := randomFlag(t)
		t.Setenv(env, "not-a-number")
		cliflag.IntVarP(flagset, &ptr, name, shorthand, env, 3, usage)
		got, err := flagset.GetInt(name)
		require.NoError(t, err)
		require.Equal(t, 3, got)
	})

	t.Run("DurationEnvVar", func(t *testing.T) {
		var ptr time.Duration
		flagset, name, shorthand, env, usage := randomFlag(t)
		t.Setenv(env, "90s")
		cliflag.DurationVarP(flagset, &ptr, name, shorthand, env, time.Minute, usage)
		got, err := flagset.GetDuration(name)
		require.NoError(t, err)
		require.Equal(t, 90*time.Second, got)
	})

	t.Run("BoolEnvVar", func(t *testing.T) {
		var ptr bool
		flagset, name, shorthand, env, usage := randomFlag(t)
		t.Setenv(env, "true")
		cliflag.BoolVarP(flagset, &ptr, name, shorthand, env, false, usage)
		got, err := flagset.GetBool(name)
		require.NoError(t, err)
		require.True(t, got)
	})
}

func randomFlag(t *testing.T) (*pflag.FlagSet, string, string, string, string) {
	t.Helper()
	flagset := pflag.NewFlagSet("test", pflag.ContinueOnError)
	name, err := cryptorand.StringCharset(cryptorand.Lower, 10)
	require.NoError(t, err)
	shorthand, err := cryptorand.StringCharset(cryptorand.Lower, 1)
	require.NoError(t, err)
	env, err := cryptorand.StringCharset(cryptorand.Upper, 10)
	require.NoError(t, err)
	usage, err := cryptorand.String(10)
	require.NoError(t, err)
	return flagset, name, shorthand, "FB_" + env, usage
}
