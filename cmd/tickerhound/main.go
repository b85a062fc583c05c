package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharanyeole/tickerhound/internal/config"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tickerhound",
		Short: "Quarterly-results ingestion pipeline",
		Long: `tickerhound crawls a gated financial-results site and keeps a MongoDB
collection of per-company quarterly metrics up to date.

Commands:
  crawl    log in and scrape an earnings or estimates listing
  symbols  back-fill ticker symbols from a mapping file or URL
  config   show the effective configuration
  version  print version information

Credentials and the store URI come from the environment:
  TICKERHOUND_LOGIN_USERNAME, TICKERHOUND_LOGIN_PASSWORD,
  TICKERHOUND_STORE_URI`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(crawlCmd())
	rootCmd.AddCommand(symbolsCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tickerhound %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Browser:\n")
			fmt.Printf("  Headless:          %v\n", cfg.Browser.Headless)
			fmt.Printf("  Stealth:           %v\n", cfg.Browser.Stealth)
			fmt.Printf("  Block Images:      %v\n", cfg.Browser.BlockImages)
			fmt.Printf("  Page Timeout:      %s\n", cfg.Browser.PageTimeout)
			fmt.Printf("\nLogin:\n")
			fmt.Printf("  URL:               %s\n", cfg.Login.URL)
			fmt.Printf("  Username set:      %v\n", cfg.Login.Username != "")
			fmt.Printf("  Password set:      %v\n", cfg.Login.Password != "")
			fmt.Printf("  Step Timeout:      %s\n", cfg.Login.StepTimeout)
			fmt.Printf("\nCrawl:\n")
			fmt.Printf("  Listing Timeout:   %s\n", cfg.Crawl.ListingTimeout)
			fmt.Printf("  Scroll Pause:      %s\n", cfg.Crawl.ScrollPause)
			fmt.Printf("  Stalled Scrolls:   %d\n", cfg.Crawl.MaxStalledScrolls)
			fmt.Printf("  Enrich Timeout:    %s\n", cfg.Crawl.EnrichTimeout)
			fmt.Printf("  Run Budget:        %s\n", cfg.Crawl.RunBudget)
			fmt.Printf("\nStore:\n")
			fmt.Printf("  Database:          %s\n", cfg.Store.Database)
			fmt.Printf("  Collection:        %s\n", cfg.Store.Collection)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}

// setupLogger creates a structured logger.
func setupLogger(cfg *config.Logging) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	out := os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}
