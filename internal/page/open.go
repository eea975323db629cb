// Package page drives a chat page in the browser through rod and exposes it
// through the extract interfaces.
package page

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"chatmd/internal/browser"
	"chatmd/internal/logger"
	"chatmd/internal/poll"
)

// WaitStrategy decides when a navigation counts as finished.
type WaitStrategy string

const (
	WaitStrategyLoad    WaitStrategy = "load"    // Wait for page to fully load
	WaitStrategyElement WaitStrategy = "element" // Wait for specific element to appear
	WaitStrategyTime    WaitStrategy = "time"    // Wait for fixed time
)

// Options control navigation.
type Options struct {
	WaitFor    WaitStrategy
	WaitTarget string // selector for element strategy or milliseconds for time strategy
	Timeout    time.Duration
}

// Page is an open chat page.
type Page struct {
	page *rod.Page
	opts Options
}

// Open creates a tab, grants it clipboard access and navigates to target.
func Open(ctx context.Context, b *browser.Browser, target string, opts Options) (*Page, error) {
	rp, err := b.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	p := &Page{page: rp, opts: opts}

	_, _ = rp.EvalOnNewDocument(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`)
	// navigator.clipboard.readText needs a focused document.
	if err := (proto.EmulationSetFocusEmulationEnabled{Enabled: true}).Call(rp); err != nil {
		logger.Debug("failed to enable focus emulation: %v", err)
	}

	if origin := originOf(target); origin != "" {
		if err := b.GrantClipboard(origin); err != nil {
			logger.Warn("%v", err)
		}
	}

	if err := p.Navigate(ctx, target); err != nil {
		rp.Close()
		return nil, err
	}
	return p, nil
}

// Navigate loads target and applies the wait strategy.
func (p *Page) Navigate(ctx context.Context, target string) error {
	start := time.Now()
	rp := p.page.Context(ctx)
	if p.opts.Timeout > 0 {
		rp = rp.Timeout(p.opts.Timeout)
	}

	if err := rp.Navigate(target); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	if err := p.applyWaitStrategy(ctx, rp); err != nil {
		return fmt.Errorf("wait strategy failed: %w", err)
	}

	// Chat apps keep fetching after load; give them a quiet network first.
	if p.opts.WaitFor == WaitStrategyLoad || p.opts.WaitFor == "" {
		wait := rp.WaitRequestIdle(
			500*time.Millisecond, nil, nil,
			[]proto.NetworkResourceType{proto.NetworkResourceTypeImage, proto.NetworkResourceTypeMedia},
		)
		wait()
	}
	logger.Debug("loaded %s in %s", target, time.Since(start).Round(time.Millisecond))
	return nil
}

func (p *Page) applyWaitStrategy(ctx context.Context, rp *rod.Page) error {
	switch p.opts.WaitFor {
	case WaitStrategyElement:
		if p.opts.WaitTarget == "" {
			return fmt.Errorf("wait target is required for element strategy")
		}
		if _, err := rp.Element(p.opts.WaitTarget); err != nil {
			return fmt.Errorf("failed to wait for element '%s': %w", p.opts.WaitTarget, err)
		}

	case WaitStrategyTime:
		ms, err := strconv.Atoi(p.opts.WaitTarget)
		if err != nil {
			return fmt.Errorf("invalid wait time '%s': %w", p.opts.WaitTarget, err)
		}
		return poll.Sleep(ctx, time.Duration(ms)*time.Millisecond)

	default:
		if err := rp.WaitLoad(); err != nil {
			return fmt.Errorf("failed to wait for page load: %w", err)
		}
	}
	return nil
}

// Close closes the tab.
func (p *Page) Close() error {
	return p.page.Close()
}

// URL returns the current address of the page.
func (p *Page) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// Title returns document.title.
func (p *Page) Title(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func originOf(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
