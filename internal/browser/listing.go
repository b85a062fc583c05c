package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/sharanyeole/tickerhound/internal/crawl"
	"github.com/sharanyeole/tickerhound/internal/types"
)

func newBlankTarget() proto.TargetCreateTarget {
	return proto.TargetCreateTarget{URL: "about:blank"}
}

// ListingPage is a rod-backed listing the crawl controller scrolls
// through. It satisfies crawl.Page.
type ListingPage struct {
	page         *rod.Page
	cardSelector string
	logger       *slog.Logger
}

// OpenListing navigates the primary page to the listing URL and blocks
// until the ready selector is present. A timeout here is fatal to the
// crawl run.
func (s *Session) OpenListing(ctx context.Context, listingURL, readySelector, cardSelector string) (*ListingPage, error) {
	page := s.page.Context(ctx)
	s.logger.Info("opening listing", "url", listingURL)

	if err := page.Timeout(s.cfg.Browser.PageTimeout).Navigate(listingURL); err != nil {
		return nil, fmt.Errorf("navigate listing: %w", err)
	}
	if _, err := page.Timeout(s.cfg.Crawl.ListingTimeout).Element(readySelector); err != nil {
		return nil, fmt.Errorf("listing did not render %q: %w", readySelector, err)
	}

	return &ListingPage{
		page:         page,
		cardSelector: cardSelector,
		logger:       s.logger,
	}, nil
}

// Height returns the current document scroll height.
func (lp *ListingPage) Height(ctx context.Context) (int, error) {
	res, err := lp.page.Context(ctx).Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

// ScrollToBottom scrolls the viewport to the bottom of the document,
// triggering the listing's lazy loader.
func (lp *ListingPage) ScrollToBottom(ctx context.Context) error {
	_, err := lp.page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

// ScrollLastIntoView scrolls the last rendered card into view. Used by
// the estimates listing, whose loader watches the final card rather
// than the viewport bottom.
func (lp *ListingPage) ScrollLastIntoView(ctx context.Context) error {
	els, err := lp.page.Context(ctx).Elements(lp.cardSelector)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		return nil
	}
	_, err = els[len(els)-1].Eval(`() => this.scrollIntoView()`)
	return err
}

// Cards returns the currently rendered card elements in DOM order.
func (lp *ListingPage) Cards(ctx context.Context) ([]crawl.Card, error) {
	els, err := lp.page.Context(ctx).Elements(lp.cardSelector)
	if err != nil {
		return nil, err
	}
	cards := make([]crawl.Card, len(els))
	for i, el := range els {
		cards[i] = &elementCard{el: el}
	}
	return cards, nil
}

type elementCard struct {
	el *rod.Element
}

func (c *elementCard) HTML() (string, error) {
	htmlStr, err := c.el.HTML()
	if err != nil {
		// Rod surfaces a detached node as an object-not-found error;
		// either way the reference is unusable and the card is stale.
		return "", fmt.Errorf("%w: %v", types.ErrStaleCard, err)
	}
	return htmlStr, nil
}
