package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for tickerhound.
type Config struct {
	Browser Browser `mapstructure:"browser" yaml:"browser"`
	Login   Login   `mapstructure:"login"   yaml:"login"`
	Crawl   Crawl   `mapstructure:"crawl"   yaml:"crawl"`
	Store   Store   `mapstructure:"store"   yaml:"store"`
	Symbols Symbols `mapstructure:"symbols" yaml:"symbols"`
	Logging Logging `mapstructure:"logging" yaml:"logging"`
	Metrics Metrics `mapstructure:"metrics" yaml:"metrics"`
}

// Browser controls the headless browser session. PageTimeout bounds
// each page navigation; element waits have their own timeouts under
// Login and Crawl.
type Browser struct {
	Headless    bool          `mapstructure:"headless"     yaml:"headless"`
	Stealth     bool          `mapstructure:"stealth"      yaml:"stealth"`
	BlockImages bool          `mapstructure:"block_images" yaml:"block_images"`
	UserDataDir string        `mapstructure:"user_data_dir" yaml:"user_data_dir"`
	WindowSize  string        `mapstructure:"window_size"  yaml:"window_size"`
	PageTimeout time.Duration `mapstructure:"page_timeout" yaml:"page_timeout"`
}

// Login controls the authenticated-session flow against the gated site.
// Username and Password must come from the environment
// (TICKERHOUND_LOGIN_USERNAME / TICKERHOUND_LOGIN_PASSWORD) or a config
// file kept out of version control.
type Login struct {
	URL         string        `mapstructure:"url"          yaml:"url"`
	Username    string        `mapstructure:"username"     yaml:"username"`
	Password    string        `mapstructure:"password"     yaml:"password"`
	StepTimeout time.Duration `mapstructure:"step_timeout" yaml:"step_timeout"`
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
}

// Crawl controls the listing-page crawl loops.
type Crawl struct {
	ListingTimeout    time.Duration `mapstructure:"listing_timeout"     yaml:"listing_timeout"`
	ScrollPause       time.Duration `mapstructure:"scroll_pause"        yaml:"scroll_pause"`
	EstimatesPause    time.Duration `mapstructure:"estimates_pause"     yaml:"estimates_pause"`
	MaxStalledScrolls int           `mapstructure:"max_stalled_scrolls" yaml:"max_stalled_scrolls"`
	EnrichTimeout     time.Duration `mapstructure:"enrich_timeout"      yaml:"enrich_timeout"`
	RunBudget         time.Duration `mapstructure:"run_budget"          yaml:"run_budget"`
}

// Store controls the MongoDB document store. URI must come from the
// environment (TICKERHOUND_STORE_URI) in deployments.
type Store struct {
	URI            string        `mapstructure:"uri"             yaml:"uri"`
	Database       string        `mapstructure:"database"        yaml:"database"`
	Collection     string        `mapstructure:"collection"      yaml:"collection"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	OpTimeout      time.Duration `mapstructure:"op_timeout"      yaml:"op_timeout"`
}

// Symbols controls the ticker-symbol backfill pass.
type Symbols struct {
	Validate       bool          `mapstructure:"validate"        yaml:"validate"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxBodySize    int64         `mapstructure:"max_body_size"   yaml:"max_body_size"`
}

// Logging controls logging behavior.
type Logging struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// Metrics controls the optional metrics endpoint.
type Metrics struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: Browser{
			Headless:    true,
			Stealth:     true,
			BlockImages: true,
			WindowSize:  "1366,768",
			PageTimeout: 30 * time.Second,
		},
		Login: Login{
			URL:         "https://m.moneycontrol.com/login.php",
			StepTimeout: 20 * time.Second,
			SettleDelay: 4 * time.Second,
		},
		Crawl: Crawl{
			ListingTimeout:    30 * time.Second,
			ScrollPause:       2 * time.Second,
			EstimatesPause:    1 * time.Second,
			MaxStalledScrolls: 3,
			EnrichTimeout:     10 * time.Second,
			RunBudget:         45 * time.Minute,
		},
		Store: Store{
			URI:            "mongodb://localhost:27017/",
			Database:       "stock_data",
			Collection:     "detailed_financials",
			ConnectTimeout: 10 * time.Second,
			OpTimeout:      30 * time.Second,
		},
		Symbols: Symbols{
			Validate:       false,
			RequestTimeout: 15 * time.Second,
			MaxBodySize:    4 * 1024 * 1024,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: Metrics{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
