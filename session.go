package main

import (
	"context"
	"fmt"

	"chatmd/internal/browser"
	"chatmd/internal/config"
	"chatmd/internal/export"
	"chatmd/internal/logger"
	"chatmd/internal/page"
	"chatmd/internal/selection"
	"chatmd/internal/sink"
	"chatmd/internal/site"

	"github.com/pterm/pterm"
)

// session is an open chat page ready to export.
type session struct {
	store    *config.Store
	browser  *browser.Browser
	page     *page.Page
	site     site.Site
	profile  site.Profile
	sel      *selection.Model
	exporter *export.Exporter
}

func openSession(ctx context.Context, target string) (*session, error) {
	s, err := resolveSite(target)
	if err != nil {
		return nil, err
	}
	store, err := config.NewStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	timing := config.DefaultTiming().WithOverrides(store)

	cfg, err := browserConfig(store)
	if err != nil {
		return nil, err
	}
	opts := page.Options{WaitFor: page.WaitStrategy(waitFor), WaitTarget: waitTarget, Timeout: timeout}

	pterm.Info.Printfln("Opening %s (%s)", target, s.Name())
	b, p, err := openPage(ctx, cfg, target, opts)
	if err != nil {
		// If failed and proxy is available, retry with proxy
		if proxyURL == "" || cfg.ControlURL != "" {
			return nil, err
		}
		pterm.Warning.Printfln("First attempt failed: %v", err)
		pterm.Info.Printfln("Retrying with proxy: %s", proxyURL)
		cfg.ProxyURL = proxyURL
		b, p, err = openPage(ctx, cfg, target, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open page (even with proxy): %w", err)
		}
	}

	sel := selection.New()
	return &session{
		store:    store,
		browser:  b,
		page:     p,
		site:     s,
		profile:  s.Profile(),
		sel:      sel,
		exporter: export.New(s, timing, sel, sink.New(outputDir)),
	}, nil
}

func openPage(ctx context.Context, cfg browser.Config, target string, opts page.Options) (*browser.Browser, *page.Page, error) {
	b, err := browser.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create browser: %w", err)
	}
	p, err := page.Open(ctx, b, target, opts)
	if err != nil {
		b.Close()
		return nil, nil, fmt.Errorf("failed to open page: %w", err)
	}
	return b, p, nil
}

func (s *session) Close() {
	if err := s.page.Close(); err != nil {
		logger.Debug("failed to close page: %v", err)
	}
	if err := s.browser.Close(); err != nil {
		logger.Debug("failed to close browser: %v", err)
	}
}

func resolveSite(target string) (site.Site, error) {
	if siteName != "" {
		s, ok := site.Get(siteName)
		if !ok {
			return nil, fmt.Errorf("unknown site: %s (available: %v)", siteName, site.Names())
		}
		return s, nil
	}
	s, ok := site.ForURL(target)
	if !ok {
		return nil, fmt.Errorf("no site adapter for %s, use --site (available: %v)", target, site.Names())
	}
	return s, nil
}

// browserConfig picks the browser profile: an explicit directory, the
// installed Chrome's profile, or chatmd's own profile under the config dir.
func browserConfig(store *config.Store) (browser.Config, error) {
	cfg := browser.Config{
		Headless:    !showUI,
		ControlURL:  controlURL,
		UserDataDir: userDataDir,
		Profile:     chromeProf,
	}
	if cfg.ControlURL != "" || cfg.UserDataDir != "" {
		return cfg, nil
	}
	if chromeProf != "" {
		dir, err := browser.ChromeUserDataDir()
		if err != nil {
			return cfg, err
		}
		cfg.UserDataDir = dir
		return cfg, nil
	}
	cfg.UserDataDir = browser.DefaultUserDataDir(store.Dir())
	return cfg, nil
}
