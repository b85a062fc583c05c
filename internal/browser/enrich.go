package browser

import (
	"context"

	"github.com/sharanyeole/tickerhound/internal/scrape"
	"github.com/sharanyeole/tickerhound/internal/types"
)

// Enrich opens the company detail page in a new tab, waits for it to
// render, extracts the supplementary valuation fields and ticker
// symbol, and closes the tab. The tab is closed on every path,
// including extraction failures; leaked tabs across a long crawl run
// exhaust the browser.
func (s *Session) Enrich(ctx context.Context, detailURL string) (*types.QuarterMetric, *string, error) {
	tab, err := s.browser.Page(newBlankTarget())
	if err != nil {
		return nil, nil, &types.EnrichError{URL: detailURL, Err: err}
	}
	defer func() {
		_ = tab.Close()
	}()

	tab = tab.Context(ctx)
	if err := tab.Timeout(s.cfg.Browser.PageTimeout).Navigate(detailURL); err != nil {
		return nil, nil, &types.EnrichError{URL: detailURL, Err: err}
	}
	if _, err := tab.Timeout(s.cfg.Crawl.EnrichTimeout).Element("body"); err != nil {
		return nil, nil, &types.EnrichError{URL: detailURL, Err: err}
	}

	pageHTML, err := tab.HTML()
	if err != nil {
		return nil, nil, &types.EnrichError{URL: detailURL, Err: err}
	}

	metric, symbol, err := scrape.ParseDetailPage(pageHTML)
	if err != nil {
		return nil, nil, &types.EnrichError{URL: detailURL, Err: err}
	}

	s.logger.Debug("detail page enriched", "url", detailURL, "symbol_found", symbol != nil)
	return metric, symbol, nil
}
