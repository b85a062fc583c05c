package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults from struct
	setDefaults(v, cfg)

	// Environment variable support
	v.SetEnvPrefix("TICKERHOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Search default locations
		v.SetConfigName("tickerhound")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".tickerhound"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper so AutomaticEnv can
// override every key.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.block_images", cfg.Browser.BlockImages)
	v.SetDefault("browser.user_data_dir", cfg.Browser.UserDataDir)
	v.SetDefault("browser.window_size", cfg.Browser.WindowSize)
	v.SetDefault("browser.page_timeout", cfg.Browser.PageTimeout)

	v.SetDefault("login.url", cfg.Login.URL)
	v.SetDefault("login.username", cfg.Login.Username)
	v.SetDefault("login.password", cfg.Login.Password)
	v.SetDefault("login.step_timeout", cfg.Login.StepTimeout)
	v.SetDefault("login.settle_delay", cfg.Login.SettleDelay)

	v.SetDefault("crawl.listing_timeout", cfg.Crawl.ListingTimeout)
	v.SetDefault("crawl.scroll_pause", cfg.Crawl.ScrollPause)
	v.SetDefault("crawl.estimates_pause", cfg.Crawl.EstimatesPause)
	v.SetDefault("crawl.max_stalled_scrolls", cfg.Crawl.MaxStalledScrolls)
	v.SetDefault("crawl.enrich_timeout", cfg.Crawl.EnrichTimeout)
	v.SetDefault("crawl.run_budget", cfg.Crawl.RunBudget)

	v.SetDefault("store.uri", cfg.Store.URI)
	v.SetDefault("store.database", cfg.Store.Database)
	v.SetDefault("store.collection", cfg.Store.Collection)
	v.SetDefault("store.connect_timeout", cfg.Store.ConnectTimeout)
	v.SetDefault("store.op_timeout", cfg.Store.OpTimeout)

	v.SetDefault("symbols.validate", cfg.Symbols.Validate)
	v.SetDefault("symbols.request_timeout", cfg.Symbols.RequestTimeout)
	v.SetDefault("symbols.max_body_size", cfg.Symbols.MaxBodySize)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
