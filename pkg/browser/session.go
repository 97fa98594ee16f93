package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/stepdriver-dev/stepdriver/pkg/config"
	"github.com/stepdriver-dev/stepdriver/pkg/core"
	"github.com/stepdriver-dev/stepdriver/pkg/executor"
	"github.com/stepdriver-dev/stepdriver/pkg/logger"
)

const loginReadyTimeout = 60 * time.Second

// Session owns one browser instance and the page bound to it.
type Session struct {
	page        *Page
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewSession launches a browser, and when the configuration carries an
// application URL and login selectors, signs in before handing the page over.
func NewSession(cfg *config.Config, log *logger.Logger) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	// Start the browser process eagerly so a broken environment fails here,
	// not on the first step.
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, core.ErrSessionSetup.WithCause(err)
	}

	s := &Session{
		page:        &Page{ctx: ctx, log: log},
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}

	if cfg.AppURL != "" && cfg.Login.UsernameSelector != "" {
		if err := s.signIn(cfg); err != nil {
			s.Close()
			return nil, core.ErrSessionSetup.WithCause(err)
		}
	}
	return s, nil
}

// NewFactory adapts NewSession to the executor's session factory contract.
func NewFactory(cfg *config.Config, log *logger.Logger) executor.SessionFactory {
	return func() (executor.Session, error) {
		return NewSession(cfg, log)
	}
}

// Page returns the page bound to this session's browser.
func (s *Session) Page() core.Page {
	return s.page
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() error {
	if s.cancelCtx != nil {
		s.cancelCtx()
		s.cancelCtx = nil
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
		s.cancelAlloc = nil
	}
	return nil
}

func (s *Session) signIn(cfg *config.Config) error {
	p := s.page
	p.log.Info("Signing in at %s", cfg.AppURL)

	if err := p.Navigate(cfg.AppURL); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if err := p.Fill(cfg.Login.UsernameSelector, cfg.Username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := p.Fill(cfg.Login.PasswordSelector, cfg.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := p.Click(cfg.Login.SubmitSelector, 0); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}

	ready := cfg.Login.ReadySelector
	if ready == "" {
		return p.WaitForLoadState(core.LoadStateLoad)
	}
	if err := p.Element(ready).WaitFor(core.StateVisible, loginReadyTimeout); err != nil {
		return fmt.Errorf("post-login element %q never appeared: %w", ready, err)
	}
	p.log.Info("Sign-in complete")
	return nil
}
