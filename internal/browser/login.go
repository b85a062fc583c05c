package browser

import (
	"context"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/sharanyeole/tickerhound/internal/types"
)

// Login-form selectors. Structural to the site, not configuration.
const (
	loginFrameSelector      = "#login_frame"
	passwordTabSelector     = "#mc_log_otp_pre > div.loginwithTab > ul > li.signup_ctc"
	usernameInputSelector   = "#mc_login > form > div:nth-child(1) > div > input[type=text]"
	passwordInputSelector   = "#mc_login > form > div:nth-child(2) > div > input[type=password]"
	loginSubmitSelector     = "#mc_login > form > button.continue.login_verify_btn"
	skipInsightsBtnSelector = "#mc_login > form > button.get_otp_signup.without_insights_btn"
)

// Login establishes an authenticated session: open the login page for
// the target URL, switch into the login iframe, flip the form from OTP
// to password mode, submit credentials, and click through the "continue
// without credit insights" interstitial. Any step timing out is fatal
// to the whole crawl run.
func (s *Session) Login(ctx context.Context, targetURL string) error {
	loginURL := s.cfg.Login.URL + "?cpurl=" + url.QueryEscape(targetURL)
	s.logger.Info("logging in", "login_url", s.cfg.Login.URL)

	page := s.page.Context(ctx)
	if err := page.Timeout(s.cfg.Browser.PageTimeout).Navigate(loginURL); err != nil {
		return &types.LoginError{Step: "navigate", Err: err}
	}

	stepTimeout := s.cfg.Login.StepTimeout

	frameEl, err := page.Timeout(stepTimeout).Element(loginFrameSelector)
	if err != nil {
		return &types.LoginError{Step: "login iframe", Err: err}
	}
	frame, err := frameEl.Frame()
	if err != nil {
		return &types.LoginError{Step: "login iframe", Err: err}
	}
	frame = frame.Context(ctx)

	if err := clickWhenReady(frame, passwordTabSelector, stepTimeout); err != nil {
		return &types.LoginError{Step: "password tab", Err: err}
	}

	if err := fillWhenVisible(frame, usernameInputSelector, s.cfg.Login.Username, stepTimeout); err != nil {
		return &types.LoginError{Step: "username input", Err: err}
	}
	if err := fillWhenVisible(frame, passwordInputSelector, s.cfg.Login.Password, stepTimeout); err != nil {
		return &types.LoginError{Step: "password input", Err: err}
	}

	if err := clickWhenReady(frame, loginSubmitSelector, stepTimeout); err != nil {
		return &types.LoginError{Step: "submit", Err: err}
	}

	if err := clickWhenReady(frame, skipInsightsBtnSelector, stepTimeout); err != nil {
		return &types.LoginError{Step: "skip credit insights", Err: err}
	}

	// Let the post-login redirects settle before the listing navigate.
	select {
	case <-time.After(s.cfg.Login.SettleDelay):
	case <-ctx.Done():
		return &types.LoginError{Step: "settle", Err: ctx.Err()}
	}

	s.logger.Info("login complete")
	return nil
}

func clickWhenReady(page *rod.Page, selector string, timeout time.Duration) error {
	el, err := page.Timeout(timeout).Element(selector)
	if err != nil {
		return err
	}
	if err := el.WaitVisible(); err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func fillWhenVisible(page *rod.Page, selector, value string, timeout time.Duration) error {
	el, err := page.Timeout(timeout).Element(selector)
	if err != nil {
		return err
	}
	if err := el.WaitVisible(); err != nil {
		return err
	}
	return el.Input(value)
}
