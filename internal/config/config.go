package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Driver names the role store implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// IsValid returns true if the driver is a recognized store driver.
func (d Driver) IsValid() bool {
	switch d {
	case DriverMemory, DriverFile, DriverSQLite, DriverPostgres:
		return true
	default:
		return false
	}
}

// DefaultPath returns the store location used when none is configured.
// Postgres has no default DSN and memory needs no path.
func (d Driver) DefaultPath() string {
	switch d {
	case DriverSQLite:
		return "rolectl.db"
	case DriverFile:
		return "roles.toml"
	default:
		return ""
	}
}

// String returns the string representation of the Driver.
func (d Driver) String() string {
	return string(d)
}

// StoreConfig selects where roles are kept.
type StoreConfig struct {
	// Driver is one of memory, file, sqlite or postgres.
	Driver Driver `toml:"driver"`

	// Path is the TOML file for the file driver or the DSN for sqlite and
	// postgres. Ignored by the memory driver. Empty means the driver's
	// default path.
	Path string `toml:"path,omitempty"`
}

// PermissionsConfig declares the permissions that may be granted. When both
// fields are empty, grants are not validated.
type PermissionsConfig struct {
	// Names lists permission names inline.
	Names []string `toml:"names,omitempty"`

	// Files lists *.permissions.yml documents to load.
	Files []string `toml:"files,omitempty"`
}

// Enabled reports whether any permission source is configured.
func (p PermissionsConfig) Enabled() bool {
	return len(p.Names) > 0 || len(p.Files) > 0
}

type CacheConfig struct {
	// RebuildCommand runs through "sh -c" after permissions change.
	RebuildCommand string `toml:"rebuild_command,omitempty"`
}

type OutputConfig struct {
	// Format is the default list format: table, yaml or json.
	Format string `toml:"format,omitempty"`
}

type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level,omitempty"`
}

// Config represents the rolectl configuration
type Config struct {
	Store       StoreConfig       `toml:"store"`
	Permissions PermissionsConfig `toml:"permissions,omitempty"`
	Cache       CacheConfig       `toml:"cache,omitempty"`
	Output      OutputConfig      `toml:"output,omitempty"`
	Log         LogConfig         `toml:"log,omitempty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Store:  StoreConfig{Driver: DriverSQLite},
		Output: OutputConfig{Format: "yaml"},
		Log:    LogConfig{Level: "warn"},
	}
}

// ApplyDefaults fills in the store path for the selected driver when it is
// not set.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = c.Store.Driver.DefaultPath()
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !c.Store.Driver.IsValid() {
		return fmt.Errorf("invalid store driver %q: must be one of memory, file, sqlite, postgres", c.Store.Driver)
	}
	if c.Store.Driver != DriverMemory && strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store path is required for the %s driver", c.Store.Driver)
	}
	switch strings.ToLower(c.Output.Format) {
	case "table", "yaml", "json":
	default:
		return fmt.Errorf("invalid output format %q: must be one of table, yaml, json", c.Output.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// ExpandPaths replaces a leading "~" in file paths with the home directory.
// Postgres DSNs are left alone.
func (c *Config) ExpandPaths() error {
	var err error
	if c.Store.Driver != DriverPostgres {
		if c.Store.Path, err = homedir.Expand(c.Store.Path); err != nil {
			return fmt.Errorf("store path: %w", err)
		}
	}
	for i, f := range c.Permissions.Files {
		if c.Permissions.Files[i], err = homedir.Expand(f); err != nil {
			return fmt.Errorf("permissions file: %w", err)
		}
	}
	return nil
}

// Load loads configuration from files, with the following precedence:
// 1. Local .rolectlrc file (in current directory)
// 2. Global ~/.rolectlrc config file
// 3. Default values
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try global config first (lower precedence)
	globalPath, err := GlobalConfigPath()
	if err == nil {
		if data, err := os.ReadFile(globalPath); err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("%s: %w", globalPath, err)
			}
		}
	}

	// Try local config (higher precedence, overwrites global)
	localPath := LocalConfigPath()
	if data, err := os.ReadFile(localPath); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", localPath, err)
		}
	}

	return cfg, nil
}

// LocalConfigPath returns the path to the local config file
func LocalConfigPath() string {
	return ".rolectlrc"
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".rolectlrc"), nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
