package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("defaults failed validation: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero page timeout", func(c *Config) { c.Browser.PageTimeout = 0 }},
		{"empty login url", func(c *Config) { c.Login.URL = "" }},
		{"zero step timeout", func(c *Config) { c.Login.StepTimeout = 0 }},
		{"negative settle delay", func(c *Config) { c.Login.SettleDelay = -time.Second }},
		{"zero stalled scrolls", func(c *Config) { c.Crawl.MaxStalledScrolls = 0 }},
		{"zero run budget", func(c *Config) { c.Crawl.RunBudget = 0 }},
		{"empty store uri", func(c *Config) { c.Store.URI = "" }},
		{"empty collection", func(c *Config) { c.Store.Collection = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad metrics port", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Port = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	cfg := DefaultConfig()
	if err := ValidateCredentials(cfg); err == nil {
		t.Error("missing credentials must be rejected")
	}
	cfg.Login.Username = "user"
	cfg.Login.Password = "pass"
	if err := ValidateCredentials(cfg); err != nil {
		t.Errorf("credentials present: %v", err)
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://m.moneycontrol.com/markets/earnings/"); err != nil {
		t.Errorf("valid url rejected: %v", err)
	}
	for _, bad := range []string{"ftp://host/x", "not a url at all://", "/relative/path"} {
		if err := ValidateURL(bad); err == nil {
			t.Errorf("expected rejection for %q", bad)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
crawl:
  max_stalled_scrolls: 5
  scroll_pause: 500ms
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Crawl.MaxStalledScrolls != 5 {
		t.Errorf("max_stalled_scrolls: %d", cfg.Crawl.MaxStalledScrolls)
	}
	if cfg.Crawl.ScrollPause != 500*time.Millisecond {
		t.Errorf("scroll_pause: %v", cfg.Crawl.ScrollPause)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level: %q", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Store.Database != "stock_data" {
		t.Errorf("database default lost: %q", cfg.Store.Database)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TICKERHOUND_LOGIN_USERNAME", "env-user")
	t.Setenv("TICKERHOUND_CRAWL_MAX_STALLED_SCROLLS", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Login.Username != "env-user" {
		t.Errorf("username from env: %q", cfg.Login.Username)
	}
	if cfg.Crawl.MaxStalledScrolls != 7 {
		t.Errorf("max_stalled_scrolls from env: %d", cfg.Crawl.MaxStalledScrolls)
	}
}
