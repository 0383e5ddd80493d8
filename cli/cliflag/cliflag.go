// Package cliflag extends pflag to bind flags to environment variables.
package cliflag

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// String sets a string flag with an environment variable fallback.
func String(flagset *pflag.FlagSet, name, shorthand, env, def, usage string) {
	v, ok := os.LookupEnv(env)
	if !ok || v == "" {
		v = def
	}
	flagset.StringP(name, shorthand, v, fmtUsage(usage, env))
}

// StringVarP sets p to the flag value, preferring the environment
// variable over the default.
func StringVarP(flagset *pflag.FlagSet, p *string, name, shorthand, env, def, usage string) {
	v, ok := os.LookupEnv(env)
	if !ok || v == "" {
		v = def
	}
	flagset.StringVarP(p, name, shorthand, v, fmtUsage(usage, env))
}

// BoolVarP sets p to the flag value with an environment fallback.
// Unparsable environment values fall back to the default.
func BoolVarP(flagset *pflag.FlagSet, p *bool, name, shorthand, env string, def bool, usage string) {
	v, err := strconv.ParseBool(os.Getenv(env))
	if err != nil {
		v = def
	}
	flagset.BoolVarP(p, name, shorthand, v, fmtUsage(usage, env))
}

// IntVarP sets p to the flag value with an environment fallback.
func IntVarP(flagset *pflag.FlagSet, p *int, name, shorthand, env string, def int, usage string) {
	v, err := strconv.Atoi(os.Getenv(env))
	if err != nil {
		v = def
	}
	flagset.IntVarP(p, name, shorthand, v, fmtUsage(usage, env))
}

// DurationVarP sets p to the flag value with an environment fallback.
func DurationVarP(flagset *pflag.FlagSet, p *time.Duration, name, shorthand, env string, def time.Duration, usage string) {
	v, err := time.ParseDuration(os.Getenv(env))
	if err != nil {
		v = def
	}
	flagset.DurationVarP(p, name, shorthand, v, fmtUsage(usage, env))
}

func fmtUsage(usage, env string) string {
	if env == "" {
		return fmt.Sprintf("%s.", usage)
	}
	return fmt.Sprintf("%s. Consumes $%s.", usage, env)
}
