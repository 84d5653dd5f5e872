// Package config owns the streamlens configuration directory and the
// config.yaml settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files.
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories.
	DirPermissions = 0755
)

var (
	// ConfigDir is the global configuration directory (~/.streamlens)
	ConfigDir string

	// ConfigFile is the yaml settings file
	ConfigFile string

	// DatabasePath is the default sqlite event log location
	DatabasePath string
)

// Duration is a time.Duration that reads and writes yaml in the "2s" /
// "500ms" notation.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config holds the user-tunable settings.
type Config struct {
	// Database is the sqlite event log path. Empty means the default under
	// the config directory.
	Database string `yaml:"database,omitempty"`

	// Remote is a ws:// URL of a streamlens read server. When set, the
	// browser reads from it instead of the local database.
	Remote string `yaml:"remote,omitempty"`

	// Listen is the serve subcommand's bind address.
	Listen string `yaml:"listen,omitempty"`

	// CatalogLimit bounds the two summary lists on the main screen.
	CatalogLimit uint64 `yaml:"catalogLimit,omitempty"`

	// EventLimit bounds the event list of a selected stream.
	EventLimit uint64 `yaml:"eventLimit,omitempty"`

	// RefreshInterval is the browser's periodic refresh cadence.
	RefreshInterval Duration `yaml:"refreshInterval,omitempty"`

	// ReadTimeout bounds a single remote read.
	ReadTimeout Duration `yaml:"readTimeout,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Listen:          "127.0.0.1:2113",
		CatalogLimit:    20,
		EventLimit:      500,
		RefreshInterval: Duration(2 * time.Second),
		ReadTimeout:     Duration(30 * time.Second),
	}
}

// Initialize sets up the configuration directory and paths, creating
// ~/.streamlens/ if it doesn't exist.
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	ConfigDir = filepath.Join(homeDir, ".streamlens")
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	DatabasePath = filepath.Join(ConfigDir, "streamlens.db")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	return nil
}

// Load reads config.yaml merged over the defaults. A missing file yields the
// defaults.
func Load() (Config, error) {
	cfg := Default()
	cfg.Database = DatabasePath

	data, err := os.ReadFile(ConfigFile)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	}
	if cfg.Database == "" {
		cfg.Database = DatabasePath
	}

	return cfg, nil
}
