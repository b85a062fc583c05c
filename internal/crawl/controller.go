// Package crawl drives a listing page end to end: scroll until the
// lazy loader runs dry, extract each newly appeared card, enrich it
// from the company detail page, and hand the record to the upsert
// engine. One controller run is one linear, single-threaded crawl.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sharanyeole/tickerhound/internal/config"
	"github.com/sharanyeole/tickerhound/internal/ingest"
	"github.com/sharanyeole/tickerhound/internal/observability"
	"github.com/sharanyeole/tickerhound/internal/scrape"
	"github.com/sharanyeole/tickerhound/internal/types"
)

// Page is the listing surface the controller scrolls through.
type Page interface {
	// Height returns the current document scroll height.
	Height(ctx context.Context) (int, error)
	// ScrollToBottom scrolls the viewport to the document bottom.
	ScrollToBottom(ctx context.Context) error
	// ScrollLastIntoView scrolls the last rendered card into view.
	ScrollLastIntoView(ctx context.Context) error
	// Cards returns the currently rendered cards in DOM order.
	Cards(ctx context.Context) ([]Card, error)
}

// Card is one rendered listing card.
type Card interface {
	// HTML returns the card's outer HTML, or a types.ErrStaleCard
	// wrapped error when the DOM re-rendered under the reference.
	HTML() (string, error)
}

// Enricher fetches the supplementary detail-page fields for a company.
type Enricher interface {
	Enrich(ctx context.Context, detailURL string) (*types.QuarterMetric, *string, error)
}

// Controller orchestrates one crawl run.
type Controller struct {
	cfg      *config.Crawl
	engine   *ingest.Engine
	enricher Enricher
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewController creates a crawl controller. metrics may be nil.
func NewController(cfg *config.Crawl, engine *ingest.Engine, enricher Enricher, metrics *observability.Metrics, logger *slog.Logger) *Controller {
	if metrics == nil {
		metrics = observability.NewMetrics(logger)
	}
	return &Controller{
		cfg:      cfg,
		engine:   engine,
		enricher: enricher,
		metrics:  metrics,
		logger:   logger.With("component", "crawl"),
	}
}

// RunEarnings crawls an earnings listing. The scroll loop terminates
// when the page height stops growing; each pass processes only the
// cards beyond the previously seen count. Per-card failures are
// absorbed into the summary; only the initial page state can fail the
// run.
func (c *Controller) RunEarnings(ctx context.Context, page Page) (*Summary, error) {
	sum := &Summary{}

	lastHeight, err := page.Height(ctx)
	if err != nil {
		return sum, err
	}

	seen := 0
	for {
		if interrupted(ctx, sum, c.logger) {
			return sum, nil
		}

		cards, err := page.Cards(ctx)
		if err != nil {
			return sum, err
		}
		if !c.processNewResultCards(ctx, cards, seen, sum) {
			return sum, nil
		}
		seen = len(cards)

		c.metrics.Scrolls.Add(1)
		if err := page.ScrollToBottom(ctx); err != nil {
			return sum, err
		}
		if !pause(ctx, c.cfg.ScrollPause) {
			continue // interrupt is caught at the loop head
		}

		height, err := page.Height(ctx)
		if err != nil {
			return sum, err
		}
		if height == lastHeight {
			c.logger.Info("page height stable, ending scroll", "height", height)
			break
		}
		lastHeight = height
	}

	// The last scroll may have rendered cards nothing has processed.
	cards, err := page.Cards(ctx)
	if err != nil {
		return sum, err
	}
	c.processNewResultCards(ctx, cards, seen, sum)

	c.logger.Info("earnings crawl done",
		"cards_seen", sum.CardsSeen,
		"inserted", sum.Inserted,
		"appended", sum.Appended,
		"skipped", sum.Skipped,
		"enrich_failed", sum.EnrichFailed,
		"soft_failed", sum.SoftFailed,
	)
	return sum, nil
}

// processNewResultCards handles cards[seen:]. Returns false when the
// context was cancelled mid-slice.
func (c *Controller) processNewResultCards(ctx context.Context, cards []Card, seen int, sum *Summary) bool {
	if seen > len(cards) {
		seen = len(cards)
	}
	for _, card := range cards[seen:] {
		if interrupted(ctx, sum, c.logger) {
			return false
		}
		c.processResultCard(ctx, card, sum)
	}
	return true
}

func (c *Controller) processResultCard(ctx context.Context, card Card, sum *Summary) {
	sum.CardsSeen++
	c.metrics.CardsSeen.Add(1)

	fragment, err := card.HTML()
	if err != nil {
		c.softFail(sum, "", err)
		return
	}

	parsed, err := scrape.ParseResultCard(fragment)
	if err != nil {
		c.softFail(sum, "", err)
		return
	}
	if parsed.Metric.Quarter == "" {
		c.softFail(sum, parsed.CompanyName, types.ErrMissingQuarter)
		return
	}

	logger := c.logger.With("company", parsed.CompanyName, "quarter", parsed.Metric.Quarter)

	// Skip before enriching: the detail-page tab is the expensive part,
	// and a stored quarter never gets re-fetched.
	known, err := c.engine.HasQuarter(ctx, parsed.CompanyName, parsed.Metric.Quarter)
	if err != nil {
		c.softFail(sum, parsed.CompanyName, err)
		return
	}
	if known {
		logger.Info("quarter already stored, skipping card")
		sum.Skipped++
		c.metrics.CardsSkipped.Add(1)
		return
	}

	metric := parsed.Metric
	var symbol *string
	detail, sym, err := c.enricher.Enrich(ctx, parsed.DetailURL)
	if err != nil {
		// Degrade to the card-level fields rather than dropping the
		// quarter.
		logger.Warn("enrichment failed, storing partial quarter", "error", err)
		sum.EnrichFailed++
		c.metrics.EnrichFailed.Add(1)
	} else {
		metric.MergeDetail(detail)
		symbol = sym
		c.metrics.EnrichOK.Add(1)
	}

	effect, err := c.engine.UpsertEarnings(ctx, parsed.CompanyName, symbol, metric)
	if err != nil {
		c.softFail(sum, parsed.CompanyName, err)
		return
	}
	sum.record(effect)
	c.recordMetric(effect)
	sum.Processed++
	c.metrics.CardsProcessed.Add(1)
}

// RunEstimates crawls an estimates-vs-actuals listing. The loop ends
// after MaxStalledScrolls consecutive scrolls produce no new cards,
// tolerating transient lazy-load stalls.
func (c *Controller) RunEstimates(ctx context.Context, page Page) (*Summary, error) {
	sum := &Summary{}

	seen := 0
	stalls := 0
	for {
		if interrupted(ctx, sum, c.logger) {
			return sum, nil
		}

		cards, err := page.Cards(ctx)
		if err != nil {
			return sum, err
		}

		// A re-render can momentarily shrink the card list below the
		// seen count; clamp so the slice below stays in bounds.
		if seen > len(cards) {
			seen = len(cards)
		}

		if len(cards) == seen {
			stalls++
			c.metrics.StalledScrolls.Add(1)
			if stalls >= c.cfg.MaxStalledScrolls {
				c.logger.Info("no new cards after consecutive scrolls, ending scrape",
					"stalled_scrolls", stalls)
				break
			}
		} else {
			stalls = 0
		}

		for _, card := range cards[seen:] {
			if interrupted(ctx, sum, c.logger) {
				return sum, nil
			}
			c.processEstimateCard(ctx, card, sum)
		}
		seen = len(cards)

		c.metrics.Scrolls.Add(1)
		if err := page.ScrollLastIntoView(ctx); err != nil {
			return sum, err
		}
		pause(ctx, c.cfg.EstimatesPause)

		c.logger.Debug("scroll pass complete", "cards_seen", seen)
	}

	c.logger.Info("estimates crawl done",
		"cards_seen", sum.CardsSeen,
		"inserted", sum.Inserted,
		"appended", sum.Appended,
		"estimate_updated", sum.EstimateUpdated,
		"soft_failed", sum.SoftFailed,
	)
	return sum, nil
}

func (c *Controller) processEstimateCard(ctx context.Context, card Card, sum *Summary) {
	sum.CardsSeen++
	c.metrics.CardsSeen.Add(1)

	fragment, err := card.HTML()
	if err != nil {
		c.softFail(sum, "", err)
		return
	}

	parsed, err := scrape.ParseEstimateCard(fragment)
	if err != nil {
		c.softFail(sum, "", err)
		return
	}

	c.logger.Info("processing estimate card",
		"company", parsed.CompanyName,
		"quarter", parsed.Quarter,
		"estimates", parsed.Estimates,
	)

	effect, err := c.engine.UpsertEstimate(ctx, ingest.EstimateUpsert{
		Company:     parsed.CompanyName,
		Quarter:     parsed.Quarter,
		Estimates:   parsed.Estimates,
		Placeholder: parsed.Placeholder(),
	})
	if err != nil {
		c.softFail(sum, parsed.CompanyName, err)
		return
	}
	sum.record(effect)
	c.recordMetric(effect)
	sum.Processed++
	c.metrics.CardsProcessed.Add(1)
}

func (c *Controller) softFail(sum *Summary, company string, err error) {
	cardErr := &types.CardError{Company: company, Err: err}
	if errors.Is(err, types.ErrStaleCard) {
		c.logger.Warn("stale card, skipping", "error", cardErr)
	} else {
		c.logger.Warn("card dropped", "error", cardErr)
	}
	sum.SoftFailed++
	c.metrics.CardsFailed.Add(1)
}

func (c *Controller) recordMetric(effect types.Effect) {
	switch effect {
	case types.Inserted:
		c.metrics.Inserted.Add(1)
	case types.Appended:
		c.metrics.Appended.Add(1)
	case types.Skipped:
		c.metrics.CardsSkipped.Add(1)
	case types.EstimateUpdated:
		c.metrics.EstimateUpdated.Add(1)
	}
}

// interrupted marks the summary and reports true when the context is
// done. Cancellation lands at scroll-loop and per-card boundaries only.
func interrupted(ctx context.Context, sum *Summary, logger *slog.Logger) bool {
	select {
	case <-ctx.Done():
		if !sum.Interrupted {
			logger.Warn("crawl interrupted", "reason", ctx.Err())
		}
		sum.Interrupted = true
		return true
	default:
		return false
	}
}

// pause sleeps for d or until the context is done. Reports whether the
// full pause elapsed.
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
