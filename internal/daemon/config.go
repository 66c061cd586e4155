// Package daemon holds the server configuration. Config is loaded from a
// TOML file with sensible defaults for every field, so a missing or partial
// file still yields a runnable server.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full shiftdesk server configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Store   StoreConfig   `toml:"store"`
	Sheets  SheetsConfig  `toml:"sheets"`
	Periods PeriodsConfig `toml:"periods"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	AllowedOrigin  string `toml:"allowed_origin"`
	MetricsEnabled bool   `toml:"metrics_enabled"`
}

// StoreConfig configures the sqlite store and the snapshot cache.
type StoreConfig struct {
	Dir      string `toml:"dir"`
	CacheTTL string `toml:"cache_ttl"`
}

// SheetsConfig holds the published CSV URL of each source table for
// `shiftdesk import`.
type SheetsConfig struct {
	Users      string `toml:"users"`
	TaskGroups string `toml:"task_groups"`
	Tasks      string `toml:"tasks"`
	Payscale   string `toml:"payscale"`
	Timeout    string `toml:"timeout"`
}

// PeriodsConfig configures the system-wide fallback period boundaries used
// when a user has no period-bearing task groups.
type PeriodsConfig struct {
	Default []string `toml:"default"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:           "127.0.0.1",
			Port:           8787,
			AllowedOrigin:  "*",
			MetricsEnabled: true,
		},
		Store: StoreConfig{
			Dir:      defaultStoreDir(),
			CacheTTL: "30s",
		},
		Sheets: SheetsConfig{
			Timeout: "30s",
		},
		Periods: PeriodsConfig{
			Default: []string{"00:00", "06:00", "12:00", "18:00"},
		},
	}
}

// Load reads the config file at path, layered over DefaultConfig. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfigPath returns the expected config file location.
func DefaultConfigPath() string {
	if env := os.Getenv("SHIFTDESK_HOME"); env != "" {
		return filepath.Join(env, "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".shiftdesk", "config.toml")
}

// Addr returns the host:port listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheTTLDuration parses the cache TTL, falling back to 30 seconds for a
// blank or malformed value.
func (c StoreConfig) CacheTTLDuration() time.Duration {
	return parseDuration(c.CacheTTL, 30*time.Second)
}

// TimeoutDuration parses the sheet fetch timeout, falling back to 30 seconds.
func (c SheetsConfig) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func defaultStoreDir() string {
	if env := os.Getenv("SHIFTDESK_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".shiftdesk")
}
