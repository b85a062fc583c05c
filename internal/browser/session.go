// Package browser owns the rod-driven browser session: launching the
// Chromium instance, the authenticated login flow, listing pages, and
// detail-page tabs. One Session drives one linear crawl run and is torn
// down via Close on every exit path.
package browser

import (
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/sharanyeole/tickerhound/internal/config"
)

// Session holds the launched browser and the primary page the crawl
// runs on. Detail-page enrichment opens short-lived secondary tabs.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	cfg      *config.Config
	logger   *slog.Logger
}

// NewSession launches a Chromium instance and opens the primary page.
func NewSession(cfg *config.Config, logger *slog.Logger) (*Session, error) {
	s := &Session{
		cfg:    cfg,
		logger: logger.With("component", "browser"),
	}

	l := launcher.New().
		Headless(cfg.Browser.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	if cfg.Browser.BlockImages {
		// The listing and detail pages are image-heavy; skipping images
		// roughly halves page settle time.
		l = l.Set("blink-settings", "imagesEnabled=false")
	}
	if cfg.Browser.UserDataDir != "" {
		l = l.UserDataDir(cfg.Browser.UserDataDir)
	}
	if cfg.Browser.WindowSize != "" {
		l = l.Set("window-size", cfg.Browser.WindowSize)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	s.browser = browser
	s.launcher = l

	if cfg.Browser.Stealth {
		s.page, err = stealth.Page(browser)
	} else {
		s.page, err = browser.Page(newBlankTarget())
	}
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}

	s.logger.Info("browser session ready",
		"headless", cfg.Browser.Headless,
		"stealth", cfg.Browser.Stealth,
		"block_images", cfg.Browser.BlockImages,
	)
	return s, nil
}

// Close shuts down the browser and the launched process.
func (s *Session) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	return err
}
