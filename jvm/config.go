package jvm

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the host-tunable knobs of the scheduler. It is loaded from a
// TOML file the way go.mod's BurntSushi/toml dependency is used elsewhere
// in the pack for structured configuration.
type Config struct {
	// EnableSanityChecks gates the §4.6 return-value sanity check. Disabling
	// it is a release-build performance knob; leaving it on is the default
	// and is strongly recommended during development.
	EnableSanityChecks bool `toml:"enable_sanity_checks"`

	// SchedulerTickLog, when true, logs every deferred-scheduling tick at
	// debug level. Verbose; off by default.
	SchedulerTickLog bool `toml:"scheduler_tick_log"`
}

// DefaultConfig matches the conservative defaults a development build
// should run with.
func DefaultConfig() Config {
	return Config{
		EnableSanityChecks: true,
		SchedulerTickLog:   false,
	}
}

// LoadConfig reads and decodes a TOML config file at path, filling in
// DefaultConfig for anything the file omits.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("jvm: loading config from %s: %w", path, err)
	}
	return cfg, nil
}
