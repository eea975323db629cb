// Package browser launches or attaches to the Chromium instance that hosts the
// chat pages.
package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"chatmd/internal/logger"
)

// Config selects how the browser is obtained.
type Config struct {
	ProxyURL string
	Headless bool
	// ControlURL attaches to a running browser (its DevTools websocket URL)
	// instead of launching one. The browser is left running on Close.
	ControlURL string
	// UserDataDir keeps cookies between runs so chat logins survive.
	UserDataDir string
	// Profile is the profile directory inside UserDataDir, e.g. "Default".
	Profile string
}

// Browser wraps a rod.Browser and, when it launched one, its launcher.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	proxyURL string
}

// New launches or attaches according to cfg.
func New(cfg Config) (*Browser, error) {
	if cfg.ControlURL != "" {
		b := rod.New().ControlURL(cfg.ControlURL)
		if err := b.Connect(); err != nil {
			return nil, fmt.Errorf("failed to attach to %s: %w", cfg.ControlURL, err)
		}
		logger.Debug("attached to browser at %s", cfg.ControlURL)
		return &Browser{browser: b}, nil
	}

	l := launcher.New().Headless(cfg.Headless)
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}
	if cfg.UserDataDir != "" {
		l = l.UserDataDir(cfg.UserDataDir)
	}
	if cfg.Profile != "" {
		l = l.Set("profile-directory", cfg.Profile)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	logger.Debug("launched browser (headless=%v, user data %q)", cfg.Headless, cfg.UserDataDir)

	return &Browser{
		browser:  b,
		launcher: l,
		proxyURL: cfg.ProxyURL,
	}, nil
}

// ProxyURL returns the proxy the browser was launched with.
func (b *Browser) ProxyURL() string {
	return b.proxyURL
}

// NewPage opens a blank tab.
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GrantClipboard lets pages of origin read and write the clipboard without a prompt.
func (b *Browser) GrantClipboard(origin string) error {
	err := proto.BrowserGrantPermissions{
		Permissions: []proto.BrowserPermissionType{
			proto.BrowserPermissionTypeClipboardReadWrite,
			proto.BrowserPermissionTypeClipboardSanitizedWrite,
		},
		Origin: origin,
	}.Call(b.browser)
	if err != nil {
		return fmt.Errorf("failed to grant clipboard permission for %s: %w", origin, err)
	}
	return nil
}

// Close shuts down a launched browser. An attached browser is left running.
func (b *Browser) Close() error {
	if b.launcher == nil {
		return nil
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
	}
	b.launcher.Kill()
	return nil
}
