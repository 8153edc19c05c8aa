// Package envconfig reads ALAN_* environment variables.
//
// Getters re-read the environment on every call so tests can use t.Setenv.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// LogLevel returns the log level for the application.
// Configurable via ALAN_DEBUG.
// Values: 0/false = INFO (default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("ALAN_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Seed returns the seed for weight initialization and shuffling.
// Configurable via ALAN_SEED. Unset or invalid values fall back to the
// current time, so runs differ unless a seed is pinned.
func Seed() int64 {
	if s := Var("ALAN_SEED"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return n
		}
		slog.Warn("invalid environment variable, using time-based seed", "key", "ALAN_SEED", "value", s)
	}
	return time.Now().UnixNano()
}

// SeedSet reports whether ALAN_SEED pins the seed.
func SeedSet() bool {
	_, err := strconv.ParseInt(Var("ALAN_SEED"), 10, 64)
	return err == nil
}

// Workers returns the number of goroutines kernels and loaders may use.
// Configurable via ALAN_WORKERS. Default: GOMAXPROCS. 1 disables parallelism.
func Workers() int {
	if n := workers(); n > 0 {
		return int(n)
	}
	return runtime.GOMAXPROCS(0)
}

var workers = Uint("ALAN_WORKERS", 0)

// NoProgress disables per-epoch tables in the CLI.
var NoProgress = Bool("ALAN_NOPROGRESS")

// Var returns an environment variable stripped of leading and trailing
// quotes and spaces.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// BoolWithDefault returns a getter for a boolean variable with a default.
// Set but unparsable values read as true.
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool returns a getter for a boolean variable that defaults to false.
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// Uint returns a getter for an unsigned variable with a default.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// EnvVar describes one environment variable and its current value.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every variable with its current value and description.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"ALAN_DEBUG":      {"ALAN_DEBUG", LogLevel(), "Show additional debug information (e.g. ALAN_DEBUG=1)"},
		"ALAN_SEED":       {"ALAN_SEED", Var("ALAN_SEED"), "Seed for weight initialization and shuffling (default: time-based)"},
		"ALAN_WORKERS":    {"ALAN_WORKERS", Workers(), "Goroutines used per batch and for image loading (default: GOMAXPROCS)"},
		"ALAN_NOPROGRESS": {"ALAN_NOPROGRESS", NoProgress(), "Do not print per-epoch loss tables"},
	}
}

// Values returns every variable's current value formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
