package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sharanyeole/tickerhound/internal/browser"
	"github.com/sharanyeole/tickerhound/internal/config"
	"github.com/sharanyeole/tickerhound/internal/crawl"
	"github.com/sharanyeole/tickerhound/internal/ingest"
	"github.com/sharanyeole/tickerhound/internal/observability"
	"github.com/sharanyeole/tickerhound/internal/scrape"
	"github.com/sharanyeole/tickerhound/internal/store"
)

var (
	crawlType string
	runBudget string
	dryRun    bool
	headful   bool
)

// crawlCmd creates the "crawl" subcommand.
func crawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [listing-url]",
		Short: "Log in and scrape a results listing into the store",
		Long: `Log in to the site, open the given listing URL, scroll until the
lazy loader runs dry, and upsert every card into the document store.

The exit code is 0 when the crawl completed, even with per-card soft
failures; only setup failures (bad arguments, login, initial page load)
exit non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawl,
	}

	cmd.Flags().StringVarP(&crawlType, "type", "t", "earnings", "crawl type: earnings or estimates")
	cmd.Flags().StringVar(&runBudget, "budget", "", "hard wall-clock budget for the run (e.g. 30m)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "use an in-memory store instead of MongoDB")
	cmd.Flags().BoolVar(&headful, "headful", false, "run the browser with a visible window")

	return cmd
}

func runCrawl(cmd *cobra.Command, args []string) error {
	listingURL := args[0]

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if headful {
		cfg.Browser.Headless = false
	}
	if runBudget != "" {
		d, err := time.ParseDuration(runBudget)
		if err != nil {
			return fmt.Errorf("invalid --budget: %w", err)
		}
		cfg.Crawl.RunBudget = d
	}

	logger := setupLogger(&cfg.Logging)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := config.ValidateCredentials(cfg); err != nil {
		return err
	}
	if err := config.ValidateURL(listingURL); err != nil {
		return fmt.Errorf("invalid listing URL %q: %w", listingURL, err)
	}

	var readySelector, cardSelector string
	switch crawlType {
	case "earnings":
		readySelector = scrape.ResultListingReadySelector
		cardSelector = scrape.ResultCardSelector
	case "estimates":
		readySelector = scrape.EstimateListingReadySelector
		cardSelector = scrape.EstimateCardSelector
	default:
		return fmt.Errorf("invalid crawl type %q (earnings or estimates)", crawlType)
	}

	// One context covers the whole run: signals cancel it, the budget
	// bounds it. The controller lands the cancellation at card and
	// scroll boundaries.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Crawl.RunBudget)
	defer cancel()

	var st store.Store
	if dryRun {
		st = store.NewMemoryStore()
		logger.Info("dry run, using in-memory store")
	} else {
		st, err = store.NewMongoStore(&cfg.Store, logger)
		if err != nil {
			return fmt.Errorf("connect store: %w", err)
		}
	}
	defer st.Close(context.Background())

	if err := st.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	session, err := browser.NewSession(cfg, logger)
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer session.Close()

	if err := session.Login(ctx, listingURL); err != nil {
		return err
	}

	page, err := session.OpenListing(ctx, listingURL, readySelector, cardSelector)
	if err != nil {
		return err
	}

	engine := ingest.NewEngine(st, logger)
	controller := crawl.NewController(&cfg.Crawl, engine, session, metrics, logger)

	start := time.Now()
	var summary *crawl.Summary
	if crawlType == "earnings" {
		summary, err = controller.RunEarnings(ctx, page)
	} else {
		summary, err = controller.RunEstimates(ctx, page)
	}
	if summary != nil {
		summary.Log(logger)
	}
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	elapsed := time.Since(start)
	fmt.Printf("\nCrawl complete in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Cards:     %d seen, %d processed, %d skipped, %d failed\n",
		summary.CardsSeen, summary.Processed, summary.Skipped, summary.SoftFailed)
	fmt.Printf("  Upserts:   %d inserted, %d appended, %d estimates updated\n",
		summary.Inserted, summary.Appended, summary.EstimateUpdated)
	fmt.Printf("  Enrich:    %d failed\n", summary.EnrichFailed)
	if summary.Interrupted {
		fmt.Println("  Run was interrupted before the listing was exhausted.")
	}

	return nil
}
