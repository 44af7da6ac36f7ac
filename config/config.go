// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Billing  BillingConfig  `yaml:"billing"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig configures persistence.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// BillingConfig configures the billing engine defaults. CompanyStateCode
// seeds the settings store on first run; LegacyPeriodRule enables the
// historical period algorithm for reproducing old invoices.
type BillingConfig struct {
	CompanyStateCode string `yaml:"company_state_code"`
	LegacyPeriodRule bool   `yaml:"legacy_period_rule"`
}

// LoggingConfig configures logging output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// MetricsConfig configures Prometheus metrics exposure.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "netbill.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads a YAML config file, applies environment overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a configuration from environment variables alone.
func FromEnv() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HasEnvConfig reports whether any NETBILL_* override is set.
func HasEnvConfig() bool {
	for _, key := range []string{
		"NETBILL_SERVER_PORT",
		"NETBILL_DATABASE_PATH",
		"NETBILL_COMPANY_STATE_CODE",
		"NETBILL_LOG_LEVEL",
	} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// applyEnv overlays NETBILL_* environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("NETBILL_SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("NETBILL_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("NETBILL_DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("NETBILL_COMPANY_STATE_CODE"); v != "" {
		c.Billing.CompanyStateCode = v
	}
	if v := os.Getenv("NETBILL_LEGACY_PERIOD_RULE"); v != "" {
		c.Billing.LegacyPeriodRule = v == "true" || v == "1"
	}
	if v := os.Getenv("NETBILL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("NETBILL_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q invalid (debug, info, warn, error)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q invalid (json, console)", c.Logging.Format)
	}
	return nil
}
