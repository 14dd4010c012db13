// Package config handles reading and writing the hb configuration file (~/.habits/config.toml).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds hb configuration settings.
type Config struct {
	Backend       string `toml:"backend,omitempty" json:"backend,omitempty"`
	DBPath        string `toml:"db_path,omitempty" json:"db_path,omitempty"`
	RedisAddr     string `toml:"redis_addr,omitempty" json:"redis_addr,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty" json:"redis_db,omitempty"`
	StorageKey    string `toml:"storage_key,omitempty" json:"storage_key,omitempty"`
	DefaultFormat string `toml:"default_format,omitempty" json:"default_format,omitempty"`
	LogLevel      string `toml:"log_level,omitempty" json:"log_level,omitempty"`
}

// validKeys lists the allowed configuration keys.
var validKeys = map[string]bool{
	"backend":        true,
	"db_path":        true,
	"redis_addr":     true,
	"redis_db":       true,
	"storage_key":    true,
	"default_format": true,
	"log_level":      true,
}

// ValidKeys returns the sorted list of valid configuration keys.
func ValidKeys() []string {
	return []string{"backend", "db_path", "default_format", "log_level", "redis_addr", "redis_db", "storage_key"}
}

// Dir returns the hb data directory (~/.habits).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".habits"
	}
	return filepath.Join(home, ".habits")
}

// Path returns the default config file path (~/.habits/config.toml).
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// jsonPath returns the legacy JSON config path for backward compatibility.
func jsonPath() string {
	return filepath.Join(Dir(), "config.json")
}

// IsZero reports whether no setting has been made.
func (c *Config) IsZero() bool {
	return *c == Config{}
}

// Load reads the config from the default path. If the TOML file does not exist
// but a legacy JSON config (~/.habits/config.json) does, it migrates the JSON
// config to TOML automatically.
func Load() (*Config, error) {
	return load(Path(), jsonPath())
}

func load(tomlPath, legacyPath string) (*Config, error) {
	cfg, err := LoadFrom(tomlPath)
	if err != nil {
		return nil, err
	}
	if !cfg.IsZero() {
		return cfg, nil
	}
	if _, statErr := os.Stat(tomlPath); !errors.Is(statErr, os.ErrNotExist) {
		return cfg, nil
	}
	if _, legacyErr := os.Stat(legacyPath); legacyErr != nil {
		return cfg, nil
	}
	cfg, err = loadJSON(legacyPath)
	if err != nil {
		return nil, err
	}
	// Migrate: write TOML and remove JSON.
	if saveErr := cfg.SaveTo(tomlPath); saveErr == nil {
		os.Remove(legacyPath)
	}
	return cfg, nil
}

// LoadFrom reads the config from a specific path. Returns an empty Config if
// the file does not exist. Supports both TOML and JSON formats (detected by
// file extension; defaults to TOML).
func LoadFrom(path string) (*Config, error) {
	if filepath.Ext(path) == ".json" {
		return loadJSON(path)
	}
	return loadTOML(path)
}

// loadTOML reads a TOML config file.
func loadTOML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// loadJSON reads a JSON config file (for backward compatibility).
func loadJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config to a specific path, creating parent directories as needed.
// Writes TOML format regardless of file extension.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Get returns the string value of a configuration key.
func (c *Config) Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "backend":
		return c.Backend, nil
	case "db_path":
		return c.DBPath, nil
	case "redis_addr":
		return c.RedisAddr, nil
	case "redis_db":
		if c.RedisDB == 0 {
			return "", nil
		}
		return strconv.Itoa(c.RedisDB), nil
	case "storage_key":
		return c.StorageKey, nil
	case "default_format":
		return c.DefaultFormat, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set assigns a value to a configuration key.
func (c *Config) Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "backend":
		if value != "" && value != "sqlite" && value != "redis" {
			return fmt.Errorf("backend must be \"sqlite\" or \"redis\", got %q", value)
		}
		c.Backend = value
	case "db_path":
		c.DBPath = value
	case "redis_addr":
		c.RedisAddr = value
	case "redis_db":
		if value == "" {
			c.RedisDB = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("redis_db must be a non-negative integer, got %q", value)
		}
		c.RedisDB = n
	case "storage_key":
		c.StorageKey = value
	case "default_format":
		if value != "" && value != "table" && value != "json" && value != "yaml" {
			return fmt.Errorf("default_format must be \"table\", \"json\" or \"yaml\", got %q", value)
		}
		c.DefaultFormat = value
	case "log_level":
		switch value {
		case "", "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", value)
		}
		c.LogLevel = value
	}
	return nil
}
