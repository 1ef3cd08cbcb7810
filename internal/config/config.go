// Package config loads process configuration from an optional YAML file
// and SHUNTING_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/27Shambhavi/shunting/internal/schedule"
)

// Config covers process level configuration. Precedence, lowest first:
// defaults, config file, environment, command-line flags.
type Config struct {
	Environment  string `yaml:"environment"`
	LogLevel     string `yaml:"log_level"`
	DataPath     string `yaml:"data_path"`
	TimeZone     string `yaml:"time_zone"`
	StrictTracks bool   `yaml:"strict_tracks"`
	MinSlot      string `yaml:"min_slot"` // bare numbers are minutes
	HTTPAddr     string `yaml:"http_addr"`

	loc     *time.Location
	minSlot time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Environment: "production",
		DataPath:    filepath.Join(home, ".shunting", "schedule.csv"),
		TimeZone:    "UTC",
		MinSlot:     "10m",
		HTTPAddr:    "127.0.0.1:8080",
	}
}

// Load applies the file at path (skipped when path is empty) and the
// environment on top of Default. The result is not validated, so callers
// can still apply flag overrides before calling Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("SHUNTING_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Environment = getEnv("SHUNTING_ENV", cfg.Environment)
	cfg.LogLevel = getEnv("SHUNTING_LOG_LEVEL", cfg.LogLevel)
	cfg.DataPath = getEnv("SHUNTING_DATA", cfg.DataPath)
	cfg.TimeZone = getEnv("SHUNTING_TZ", cfg.TimeZone)
	cfg.StrictTracks = getEnvBool("SHUNTING_STRICT_TRACKS", cfg.StrictTracks)
	cfg.MinSlot = getEnv("SHUNTING_MIN_SLOT", cfg.MinSlot)
	cfg.HTTPAddr = getEnv("SHUNTING_HTTP_ADDR", cfg.HTTPAddr)

	return cfg, nil
}

// Validate checks the configuration and resolves the time zone and
// minimum slot length.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.DataPath) == "" {
		errs = append(errs, errors.New("data_path is required"))
	}

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		errs = append(errs, fmt.Errorf("time_zone %q: %w", c.TimeZone, err))
	}
	c.loc = loc

	d, err := schedule.ParseDuration(c.MinSlot)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("min_slot %q: %w", c.MinSlot, err))
	case d <= 0:
		errs = append(errs, fmt.Errorf("min_slot %q must be positive", c.MinSlot))
	}
	c.minSlot = d

	switch strings.ToLower(c.LogLevel) {
	case "", "trace", "debug", "info", "warn", "error", "disabled":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is not a known level", c.LogLevel))
	}

	return errors.Join(errs...)
}

// Location is the zone for timestamps that carry none. UTC until Validate succeeds.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DefaultMinSlot is the slot length used when a query does not give one.
func (c *Config) DefaultMinSlot() time.Duration {
	return c.minSlot
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
