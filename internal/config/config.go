// Package config provides configuration management for the map editor.
//
// The config file says where to listen and where the map lives; the map
// itself is kept in the database and survives config changes.
//
// Config file locations (priority order):
//  1. $METROMAPS_CONFIG
//  2. ./metromaps.yaml
//  3. $XDG_CONFIG_HOME/metromaps/config.yaml
//  4. ~/.config/metromaps/config.yaml
//  5. /etc/metromaps/config.yaml
//
// Environment variables (optionally from a .env file) override file values:
// METROMAPS_ADDR, METROMAPS_DB and METROMAPS_SEED.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable overrides
const (
	EnvAddr = "METROMAPS_ADDR"
	EnvDB   = "METROMAPS_DB"
	EnvSeed = "METROMAPS_SEED"
)

const (
	defaultAddr            = ":3000"
	defaultDBPath          = "./metromaps.db"
	defaultLanguage        = "en"
	defaultShutdownTimeout = 10 * time.Second
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		cfg := DefaultConfig()
		cfg.ApplyEnv()
		return cfg, "", cfg.Validate()
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables already set. Missing files are
// skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides file values with METROMAPS_* environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		c.Map.Seed = v
	}
}

// Validate checks the config against its struct tags
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(defaultShutdownTimeout)
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDBPath
	}
	if c.Alerts.Language == "" {
		c.Alerts.Language = defaultLanguage
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Addr: %s, Database: %s\n", c.Server.Addr, c.Database.Path)
	if c.Map.Seed != "" {
		summary += fmt.Sprintf("Seed map: %s (watch: %t)\n", c.Map.Seed, c.Map.Watch)
	}
	summary += fmt.Sprintf("Alerts: agency=%q language=%s active=%s",
		c.Alerts.AgencyID, c.Alerts.Language, c.Alerts.ActiveFor())
	return summary
}
