package page

import (
	"context"

	"github.com/go-rod/rod"

	"chatmd/internal/extract"
)

// Element wraps a rod element. Every call is scoped to the caller's context.
type Element struct {
	el *rod.Element
}

func wrapAll(els rod.Elements) []extract.Element {
	out := make([]extract.Element, 0, len(els))
	for _, e := range els {
		out = append(out, &Element{el: e})
	}
	return out
}

func (e *Element) Query(ctx context.Context, selector string) (extract.Element, error) {
	has, found, err := e.el.Context(ctx).Has(selector)
	if err != nil || !has {
		return nil, err
	}
	return &Element{el: found}, nil
}

func (e *Element) QueryAll(ctx context.Context, selector string) ([]extract.Element, error) {
	els, err := e.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrapAll(els), nil
}

func (e *Element) Matches(ctx context.Context, selector string) (bool, error) {
	return e.el.Context(ctx).Matches(selector)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(`() => this.textContent`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (e *Element) HTML(ctx context.Context) (string, error) {
	return e.el.Context(ctx).HTML()
}

// Hover dispatches the synthetic mouseover the chat UIs listen for to reveal
// their message toolbars.
func (e *Element) Hover(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(`() => {
		this.dispatchEvent(new MouseEvent('mouseover', { bubbles: true }));
		this.dispatchEvent(new MouseEvent('mouseenter', { bubbles: false }));
	}`)
	return err
}

// Click uses the DOM click so hidden toolbar buttons still respond.
func (e *Element) Click(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(`() => this.click()`)
	return err
}

func (p *Page) Query(ctx context.Context, selector string) (extract.Element, error) {
	has, found, err := p.page.Context(ctx).Has(selector)
	if err != nil || !has {
		return nil, err
	}
	return &Element{el: found}, nil
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]extract.Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrapAll(els), nil
}

// Read returns the clipboard text as the page sees it.
func (p *Page) Read(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(`() => navigator.clipboard.readText()`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Write replaces the clipboard text.
func (p *Page) Write(ctx context.Context, text string) error {
	_, err := p.page.Context(ctx).Eval(`(t) => navigator.clipboard.writeText(t)`, text)
	return err
}
