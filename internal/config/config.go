// Package config loads bytekvd's ambient configuration: the host/port/
// capacity the wire protocol's own contract needs (spec.md §6), plus the
// logging knobs the core contract explicitly leaves out. Layering is
// defaults, then an optional TOML file, then CLI flags — each layer only
// overrides what it actually sets.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/devraj-k/bytekv/internal/bytekverr"
)

// Config is bytekvd's full runtime configuration.
type Config struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	CapacityMB  int    `toml:"capacity_mb"`
	Backlog     int    `toml:"backlog"`
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
	LogMaxSize  int    `toml:"log_max_size_mb"`
	LogMaxBacks int    `toml:"log_max_backups"`
	LogMaxAge   int    `toml:"log_max_age_days"`
}

// DefaultConfig returns the configuration used when no file or flag
// overrides anything.
func DefaultConfig() Config {
	return Config{
		Host:        "0.0.0.0",
		Port:        9000,
		CapacityMB:  64,
		Backlog:     512,
		LogLevel:    "info",
		LogMaxSize:  100,
		LogMaxBacks: 5,
		LogMaxAge:   28,
	}
}

// Load starts from DefaultConfig and, if path is non-empty, decodes a
// TOML file on top of it. Only fields present in the file are
// overwritten; everything else keeps its default.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, bytekverr.Wrap(err, bytekverr.CodeConfigLoadFailed, "failed to decode config file").
			WithContext("path", path)
	}
	return cfg, nil
}

// Validate rejects configuration values that would make the server
// nonsensical to start. The wire protocol itself has no opinion on these;
// this is purely the host's own sanity check.
func (c Config) Validate() error {
	if c.CapacityMB <= 0 {
		return bytekverr.New(bytekverr.CodeInvalidConfig, "capacity_mb must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return bytekverr.Newf(bytekverr.CodeInvalidConfig, "port %d out of range", c.Port)
	}
	if c.Backlog <= 0 {
		return bytekverr.New(bytekverr.CodeInvalidConfig, "backlog must be positive")
	}
	return nil
}

// CapacityBytes converts the configured megabyte capacity to the byte
// count the cache engine's contract actually takes.
func (c Config) CapacityBytes() int64 {
	return int64(c.CapacityMB) * 1024 * 1024
}
