package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Map      MapConfig      `yaml:"map"`
	Alerts   AlertsConfig   `yaml:"alerts"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string   `yaml:"addr" validate:"required"`
	CORSOrigins     []string `yaml:"cors_origins,omitempty" validate:"dive,required"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout,omitempty"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// MapConfig holds map bootstrapping settings
type MapConfig struct {
	// Seed is a YAML or JSON map loaded when the database holds none
	Seed string `yaml:"seed,omitempty"`

	// Watch re-imports Seed whenever the file changes
	Watch bool `yaml:"watch,omitempty"`
}

// AlertsConfig holds GTFS-RT alert feed settings
type AlertsConfig struct {
	AgencyID    string `yaml:"agency_id,omitempty"`
	Language    string `yaml:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
	ActiveHours int    `yaml:"active_hours,omitempty" validate:"gte=0"`
}

// ActiveFor returns how long an alert stays active, zero meaning open ended
func (a AlertsConfig) ActiveFor() time.Duration {
	return time.Duration(a.ActiveHours) * time.Hour
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
