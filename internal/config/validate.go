package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Browser.PageTimeout <= 0 {
		return fmt.Errorf("browser.page_timeout must be > 0")
	}

	if cfg.Login.URL == "" {
		return fmt.Errorf("login.url must be set")
	}
	if _, err := url.Parse(cfg.Login.URL); err != nil {
		return fmt.Errorf("invalid login.url %q: %w", cfg.Login.URL, err)
	}
	if cfg.Login.StepTimeout <= 0 {
		return fmt.Errorf("login.step_timeout must be > 0")
	}
	if cfg.Login.SettleDelay < 0 {
		return fmt.Errorf("login.settle_delay must be >= 0")
	}

	if cfg.Crawl.ListingTimeout <= 0 {
		return fmt.Errorf("crawl.listing_timeout must be > 0")
	}
	if cfg.Crawl.ScrollPause < 0 || cfg.Crawl.EstimatesPause < 0 {
		return fmt.Errorf("crawl scroll pauses must be >= 0")
	}
	if cfg.Crawl.MaxStalledScrolls < 1 {
		return fmt.Errorf("crawl.max_stalled_scrolls must be >= 1, got %d", cfg.Crawl.MaxStalledScrolls)
	}
	if cfg.Crawl.EnrichTimeout <= 0 {
		return fmt.Errorf("crawl.enrich_timeout must be > 0")
	}
	if cfg.Crawl.RunBudget <= 0 {
		return fmt.Errorf("crawl.run_budget must be > 0")
	}

	if cfg.Store.URI == "" {
		return fmt.Errorf("store.uri must be set")
	}
	if cfg.Store.Database == "" || cfg.Store.Collection == "" {
		return fmt.Errorf("store.database and store.collection must be set")
	}

	if cfg.Symbols.MaxBodySize <= 0 {
		return fmt.Errorf("symbols.max_body_size must be > 0")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateCredentials checks that login credentials are present. Kept
// separate from Validate so read-only commands can skip it.
func ValidateCredentials(cfg *Config) error {
	if cfg.Login.Username == "" || cfg.Login.Password == "" {
		return fmt.Errorf("login credentials missing: set TICKERHOUND_LOGIN_USERNAME and TICKERHOUND_LOGIN_PASSWORD")
	}
	return nil
}

// ValidateURL checks if a URL string is a usable crawl target.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL missing host")
	}
	return nil
}
