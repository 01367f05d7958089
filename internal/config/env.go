// This file contains environment variable overrides for configuration.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/NetPo4ki/go-fanbench/internal/errors"
)

// envOverride maps an env key (without EnvPrefix) to the flag it overrides
// and a function that applies the raw value.
type envOverride[C any] struct {
	envKey string
	flag   string
	apply  func(*C, string) error
}

var cpuOverrides = []envOverride[CPUConfig]{
	{"WORKERS", "workers", func(c *CPUConfig, v string) error { return parseInt(v, "WORKERS", &c.Workers) }},
	{"SIZE", "size", func(c *CPUConfig, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return envError("SIZE", v)
		}
		c.Size = n
		return nil
	}},
	{"VERBOSE", "verbose", func(c *CPUConfig, v string) error { return parseBool(v, "VERBOSE", &c.Verbose) }},
}

var cooperativeOverrides = []envOverride[CooperativeConfig]{
	{"TASKS", "tasks", func(c *CooperativeConfig, v string) error { return parseInt(v, "TASKS", &c.Tasks) }},
	{"MAX_DELAY", "max-delay", func(c *CooperativeConfig, v string) error {
		return parseDuration(v, "MAX_DELAY", &c.MaxDelay)
	}},
	{"SEED", "seed", func(c *CooperativeConfig, v string) error { return parseUint(v, "SEED", &c.Seed) }},
	{"VERBOSE", "verbose", func(c *CooperativeConfig, v string) error {
		return parseBool(v, "VERBOSE", &c.Verbose)
	}},
}

var poolOverrides = []envOverride[PoolConfig]{
	{"TASKS", "tasks", func(c *PoolConfig, v string) error { return parseInt(v, "TASKS", &c.Tasks) }},
	{"WORKERS", "workers", func(c *PoolConfig, v string) error { return parseInt(v, "WORKERS", &c.Workers) }},
	{"MAX_DELAY", "max-delay", func(c *PoolConfig, v string) error {
		return parseDuration(v, "MAX_DELAY", &c.MaxDelay)
	}},
	{"SEED", "seed", func(c *PoolConfig, v string) error { return parseUint(v, "SEED", &c.Seed) }},
	{"VERBOSE", "verbose", func(c *PoolConfig, v string) error { return parseBool(v, "VERBOSE", &c.Verbose) }},
}

// applyOverrides applies every override whose variable is set and whose
// flag was not given explicitly.
func applyOverrides[C any](fs *flag.FlagSet, cfg *C, overrides []envOverride[C]) error {
	for _, o := range overrides {
		val, ok := os.LookupEnv(EnvPrefix + o.envKey)
		if !ok || val == "" || isFlagSet(fs, o.flag) {
			continue
		}
		if err := o.apply(cfg, val); err != nil {
			return err
		}
	}
	return nil
}

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func envError(key, val string) error {
	return apperrors.NewConfigError(strings.ToLower(key), "invalid value %q for %s%s", val, EnvPrefix, key)
}

func parseInt(v, key string, dst *int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return envError(key, v)
	}
	*dst = n
	return nil
}

func parseUint(v, key string, dst *uint64) error {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return envError(key, v)
	}
	*dst = n
	return nil
}

func parseDuration(v, key string, dst *time.Duration) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return envError(key, v)
	}
	*dst = d
	return nil
}

// parseBool accepts "true", "1", "yes" and "false", "0", "no" (case-insensitive).
func parseBool(v, key string, dst *bool) error {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		*dst = true
	case "false", "0", "no":
		*dst = false
	default:
		return envError(key, v)
	}
	return nil
}
