package markdown

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Elements that always start a block.
var blockTags = setOf(
	"html", "body", "p", "div", "section", "article", "main", "header", "footer",
	"aside", "nav", "figure", "ul", "ol", "li", "pre", "blockquote", "table",
	"thead", "tbody", "tfoot", "tr", "hr", "h1", "h2", "h3", "h4", "h5", "h6",
)

// Content wrappers used by the chat sites. They carry the answer, so they are
// descended into like a div even when they only hold text.
var wrapperTags = setOf(
	"deep-research-immersive-panel", "response-container", "message-content",
	"response-element", "horizontal-scroll-wrapper", "model-response",
	"user-query", "structured-content-container", "ms-cmark-node",
)

// UI chrome: dropped together with everything below it.
var chromeTags = setOf(
	"head", "button", "script", "style", "noscript", "template", "svg", "input", "select",
	"textarea", "iframe", "canvas", "mat-icon", "mat-menu", "toolbar",
	"thinking-panel", "collapsible-button", "deep-research-source-lists",
	"canvas-create-button", "browse-web-item", "source-footnote",
	"sources-carousel-inline", "end-of-report-marker", "message-actions",
	"copy-button", "tooltip",
)

var chromeRoles = setOf(
	"button", "toolbar", "menu", "menubar", "menuitem", "tooltip", "dialog", "progressbar",
)

// Class and data-test-id fragments that mark chrome.
var chromeKeywords = []string{
	"toolbar", "copy-button", "action-button", "sources-carousel", "source-list",
	"tooltip", "sr-only", "visually-hidden",
}

var (
	spaceRun        = regexp.MustCompile(`\s+`)
	languagePattern = regexp.MustCompile(`language-([\w#+-]+)`)
	textReplacer    = strings.NewReplacer(
		"\u201c", `"`, "\u201d", `"`,
		"\u2018", "'", "\u2019", "'",
		"\u00a0", " ",
	)
)

func setOf(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// isChrome reports whether an element is a UI control rather than content.
func isChrome(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if chromeTags[n.Data] || chromeRoles[attr(n, "role")] || attr(n, "aria-hidden") == "true" {
		return true
	}
	marks := strings.ToLower(attr(n, "class") + " " + attr(n, "data-test-id"))
	if strings.TrimSpace(marks) == "" {
		return false
	}
	for _, kw := range chromeKeywords {
		if strings.Contains(marks, kw) {
			return true
		}
	}
	return false
}

// hasBlockContent reports whether any non-chrome descendant starts a block.
func hasBlockContent(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || isChrome(c) {
			continue
		}
		if blockTags[c.Data] || wrapperTags[c.Data] || hasBlockContent(c) {
			return true
		}
	}
	return false
}

// isInline reports whether n belongs in a paragraph run rather than its own block.
func isInline(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		if isChrome(n) {
			return true // renders as nothing
		}
		return !blockTags[n.Data] && !wrapperTags[n.Data] && !hasBlockContent(n)
	}
	return false
}

// textContent concatenates descendant text verbatim, skipping chrome.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if isChrome(n) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func normalizeText(s string) string {
	return spaceRun.ReplaceAllString(textReplacer.Replace(s), " ")
}

func language(n *html.Node) string {
	if m := languagePattern.FindStringSubmatch(attr(n, "class")); m != nil {
		return m[1]
	}
	return ""
}

// findFirst returns the first descendant element with the given tag.
func findFirst(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, tag) {
			return c
		}
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}
