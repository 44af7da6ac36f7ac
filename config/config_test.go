package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netbill.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 15s
database:
  path: /var/lib/netbill/netbill.db
billing:
  company_state_code: KA
  legacy_period_rule: true
logging:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("read_timeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	// Unset keys keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q, want default", cfg.Server.Host)
	}
	if cfg.Database.Path != "/var/lib/netbill/netbill.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.Billing.CompanyStateCode != "KA" || !cfg.Billing.LegacyPeriodRule {
		t.Errorf("billing = %+v", cfg.Billing)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
billing:
  company_state_code: KA
`)
	t.Setenv("NETBILL_SERVER_PORT", "7070")
	t.Setenv("NETBILL_COMPANY_STATE_CODE", "MH")
	t.Setenv("NETBILL_LEGACY_PERIOD_RULE", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Billing.CompanyStateCode != "MH" {
		t.Errorf("state code = %q, want MH", cfg.Billing.CompanyStateCode)
	}
	if !cfg.Billing.LegacyPeriodRule {
		t.Error("legacy_period_rule not set from env")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("NETBILL_DATABASE_PATH", "env.db")
	t.Setenv("NETBILL_LOG_LEVEL", "warn")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Database.Path != "env.db" || cfg.Logging.Level != "warn" {
		t.Errorf("cfg = %+v %+v", cfg.Database, cfg.Logging)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, false},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, false},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, false},
		{"bad log format", func(c *Config) { c.Logging.Format = "text" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
