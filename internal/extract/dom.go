// Package extract finds conversation turns in a live chat page and reads the
// text of each message through the page's own copy controls.
package extract

import (
	"context"
	"strings"
)

// Scope can be searched for elements. Query returns nil, nil when nothing matches.
type Scope interface {
	Query(ctx context.Context, selector string) (Element, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
}

// Element is a live node in the host page. Implementations hold a reference
// only; they never own the node.
type Element interface {
	Scope
	Matches(ctx context.Context, selector string) (bool, error)
	// Text returns the node's text content.
	Text(ctx context.Context) (string, error)
	// HTML returns the node's outer HTML.
	HTML(ctx context.Context) (string, error)
	Hover(ctx context.Context) error
	Click(ctx context.Context) error
}

// Clipboard is the host page's clipboard.
type Clipboard interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, text string) error
}

// Page is the document being exported.
type Page interface {
	Scope
	Clipboard
}

// find returns el itself when it matches selector, else its first match.
func find(ctx context.Context, el Element, selector string) (Element, error) {
	if selector == "" {
		return nil, nil
	}
	if ok, err := el.Matches(ctx, selector); err == nil && ok {
		return el, nil
	}
	return el.Query(ctx, selector)
}

// findWithText returns the first match in scope whose text contains text.
func findWithText(ctx context.Context, scope Scope, selector, text string) (Element, error) {
	if text == "" {
		return scope.Query(ctx, selector)
	}
	els, err := scope.QueryAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(text)
	for _, el := range els {
		s, err := el.Text(ctx)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(strings.TrimSpace(s)), want) {
			return el, nil
		}
	}
	return nil, nil
}
