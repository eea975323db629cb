package extract

import (
	"context"
	"fmt"

	"chatmd/internal/chat"
	"chatmd/internal/logger"
	"chatmd/internal/site"
)

// Turn is one conversation turn in document order.
type Turn struct {
	Index   int
	Element Element

	HasUser      bool
	HasAssistant bool
}

// Locator finds turns with a cascade of strategies.
type Locator struct {
	sel site.Selectors
}

// NewLocator returns a locator for a site's selectors.
func NewLocator(sel site.Selectors) *Locator {
	return &Locator{sel: sel}
}

// FindTurns tries each turn selector in order, then the structural fallback
// root as a single turn. It fails with chat.ErrNoContentFound when every
// strategy comes up empty.
func (l *Locator) FindTurns(ctx context.Context, root Scope) ([]Turn, error) {
	els, err := l.candidates(ctx, root)
	if err != nil {
		return nil, err
	}

	var turns []Turn
	for _, el := range els {
		if l.sel.SkipTurn != "" {
			if skip, _ := el.Query(ctx, l.sel.SkipTurn); skip != nil {
				continue
			}
		}
		t := Turn{Index: len(turns), Element: el}
		if u, _ := find(ctx, el, l.sel.User); u != nil {
			t.HasUser = true
		}
		if a, _ := find(ctx, el, l.sel.Assistant); a != nil {
			t.HasAssistant = true
		}
		turns = append(turns, t)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, chat.ErrNoContentFound
	}
	return turns, nil
}

func (l *Locator) candidates(ctx context.Context, root Scope) ([]Element, error) {
	for i, selector := range l.sel.Turns {
		els, err := root.QueryAll(ctx, selector)
		if err != nil {
			return nil, fmt.Errorf("failed to query turns: %w", err)
		}
		if len(els) > 0 {
			logger.Debug("locator: strategy %d (%s) found %d turns", i+1, selector, len(els))
			return els, nil
		}
	}

	if l.sel.FallbackRoot == "" {
		return nil, nil
	}
	if el, ok := root.(Element); ok {
		if match, _ := el.Matches(ctx, l.sel.FallbackRoot); match {
			logger.Debug("locator: using scope root as the only turn")
			return []Element{el}, nil
		}
	}
	el, err := root.Query(ctx, l.sel.FallbackRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to query fallback root: %w", err)
	}
	if el == nil {
		return nil, nil
	}
	logger.Debug("locator: using %s as the only turn", l.sel.FallbackRoot)
	return []Element{el}, nil
}
