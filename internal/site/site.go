// Package site describes how to read one chat web application: which elements
// hold the history, the turns and each role's message, how to trigger the
// host's copy control, and how to label and name the export.
package site

import (
	"net/url"
	"strings"

	"chatmd/internal/config"
)

// Site is implemented by each supported chat application.
type Site interface {
	Name() string
	// Matches reports whether a page host belongs to this site.
	Matches(host string) bool
	Profile() Profile
	// Title picks the document title from the page title and URL.
	Title(pageTitle, pageURL string) string
}

// Control is one step of a copy-control chain. The element is searched inside
// the turn, or in the whole page when Global is set. Text, when not empty,
// must occur (case-insensitively) in the element's text.
type Control struct {
	Selector string
	Text     string
	Global   bool
}

// Selectors locate content in the host page.
type Selectors struct {
	// ScrollContainer holds the lazily loaded history. Empty when the site
	// renders the whole conversation at once.
	ScrollContainer string
	// Turns are tried in order; the first selector that matches wins.
	Turns []string
	// FallbackRoot is treated as a single turn when no turn selector matches.
	FallbackRoot string
	// SkipTurn drops turns that contain it.
	SkipTurn string

	User      string
	Assistant string
	Copy      []Control

	// RenderRoot, when present in the page, is exported as one rendered report
	// instead of turn by turn.
	RenderRoot string
	// ConversationLinks finds conversation links on a listing page.
	ConversationLinks string
}

// Labels are the section headings for each role.
type Labels struct {
	User      string
	Assistant string
}

// Profile is everything the exporter needs to know about a site.
type Profile struct {
	Selectors Selectors
	Labels    Labels

	// Product names the application in bulk export headings.
	Product      string
	DefaultTitle string
	RenderTitle  string
	FilePrefix   string
	// RenderFilePrefix names files exported from the render root. Empty
	// means FilePrefix.
	RenderFilePrefix string

	// PairedTurns marks sites whose turns always hold both roles, so a
	// missing message is reported instead of skipped.
	PairedTurns bool

	// Tune adjusts timing defaults for slow site UIs.
	Tune func(config.Timing) config.Timing
}

// Timing returns base adjusted by the profile.
func (p Profile) Timing(base config.Timing) config.Timing {
	if p.Tune == nil {
		return base
	}
	return p.Tune(base)
}

// Host extracts the lowercase host of rawURL, tolerating a missing scheme.
func Host(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
