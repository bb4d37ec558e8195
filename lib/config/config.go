// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when no --config flag is
// given.
const EnvironmentVariable = "HEATERLINK_CONFIG"

// Store backends.
const (
	StoreDiscard = "discard"
	StoreSQLite  = "sqlite"
	StoreHTTP    = "http"
)

// Config is the relay configuration.
type Config struct {
	// Listen configures the frame listener.
	Listen ListenConfig `yaml:"listen" json:"listen" toml:"listen"`

	// Store configures where encoded items are written.
	Store StoreConfig `yaml:"store" json:"store" toml:"store"`

	// Archive configures the raw frame archive.
	Archive ArchiveConfig `yaml:"archive" json:"archive" toml:"archive"`

	// Log configures the process logger.
	Log LogConfig `yaml:"log" json:"log" toml:"log"`
}

// ListenConfig configures the frame listener.
type ListenConfig struct {
	// Address is the TCP address to accept frame connections on.
	// Default: 0.0.0.0:8192
	Address string `yaml:"address" json:"address" toml:"address"`

	// ReadSize is the maximum number of bytes read per frame.
	// Default: 200
	ReadSize int `yaml:"read_size" json:"read_size" toml:"read_size"`
}

// StoreConfig configures the item store.
type StoreConfig struct {
	// Backend is one of "discard", "sqlite", or "http".
	// Default: discard
	Backend string `yaml:"backend" json:"backend" toml:"backend"`

	// Table is the table items are written to.
	// Default: heater_telemetry
	Table string `yaml:"table" json:"table" toml:"table"`

	// Path is the database file for the sqlite backend.
	// Default: ${HOME}/.cache/heaterlink/items.db
	Path string `yaml:"path" json:"path" toml:"path"`

	// Endpoint is the base URL for the http backend.
	Endpoint string `yaml:"endpoint" json:"endpoint" toml:"endpoint"`

	// MaxAttempts is the number of tries per item for the http
	// backend. Default: 1
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts" toml:"max_attempts"`
}

// ArchiveConfig configures the raw frame archive.
type ArchiveConfig struct {
	// Enabled turns the archive on.
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// Path is the archive database file.
	// Default: ${HOME}/.cache/heaterlink/frames.db
	Path string `yaml:"path" json:"path" toml:"path"`

	// Compression is "none", "lz4", or "zstd". Default: zstd
	Compression string `yaml:"compression" json:"compression" toml:"compression"`

	// Recipients are age public keys (age1...) that archived payloads
	// are encrypted to. Empty means payloads are stored in the clear.
	Recipients []string `yaml:"recipients" json:"recipients" toml:"recipients"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is debug, info, warn, or error. Default: info
	Level string `yaml:"level" json:"level" toml:"level"`

	// Format is "json" or "text". Default: json
	Format string `yaml:"format" json:"format" toml:"format"`
}

// Default returns the default configuration. With no config file the
// relay listens on 0.0.0.0:8192, reads up to 200 bytes per frame, and
// only logs the records it decodes.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".cache", "heaterlink")

	return &Config{
		Listen: ListenConfig{
			Address:  "0.0.0.0:8192",
			ReadSize: 200,
		},
		Store: StoreConfig{
			Backend:     StoreDiscard,
			Table:       "heater_telemetry",
			Path:        filepath.Join(defaultRoot, "items.db"),
			MaxAttempts: 1,
		},
		Archive: ArchiveConfig{
			Path:        filepath.Join(defaultRoot, "frames.db"),
			Compression: "zstd",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads the file named by HEATERLINK_CONFIG, or returns Default
// when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path over the defaults. Files
// ending in .json or .jsonc are parsed as JSON with comments, .toml as
// TOML, anything else as YAML. ${HOME} and ${VAR:-default} are expanded in path
// fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.expandVariables()

	return cfg, nil
}

// loadFile merges a single configuration file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Store.Path = expandVars(c.Store.Path, vars)
	c.Archive.Path = expandVars(c.Archive.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Listen.Address == "" {
		errs = append(errs, fmt.Errorf("listen.address is required"))
	}
	if c.Listen.ReadSize <= 0 {
		errs = append(errs, fmt.Errorf("listen.read_size must be positive, got %d", c.Listen.ReadSize))
	}

	switch c.Store.Backend {
	case StoreDiscard:
	case StoreSQLite:
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for the sqlite backend"))
		}
	case StoreHTTP:
		if c.Store.Endpoint == "" {
			errs = append(errs, fmt.Errorf("store.endpoint is required for the http backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be one of: %v", []string{StoreDiscard, StoreSQLite, StoreHTTP}))
	}
	if c.Store.Backend != StoreDiscard && c.Store.Table == "" {
		errs = append(errs, fmt.Errorf("store.table is required"))
	}
	if c.Store.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("store.max_attempts must not be negative"))
	}

	compressions := []string{"none", "lz4", "zstd"}
	if c.Archive.Compression != "" && !contains(compressions, c.Archive.Compression) {
		errs = append(errs, fmt.Errorf("archive.compression must be one of: %v", compressions))
	}
	if c.Archive.Enabled && c.Archive.Path == "" {
		errs = append(errs, fmt.Errorf("archive.path is required when the archive is enabled"))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	formats := []string{"json", "text"}
	if !contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// EnsurePaths creates the directories holding the configured database
// files, for the parts that are in use.
func (c *Config) EnsurePaths() error {
	var paths []string
	if c.Store.Backend == StoreSQLite {
		paths = append(paths, filepath.Dir(c.Store.Path))
	}
	if c.Archive.Enabled {
		paths = append(paths, filepath.Dir(c.Archive.Path))
	}

	for _, path := range paths {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
