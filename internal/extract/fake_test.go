package extract

import (
	"context"
	"errors"
	"slices"
)

// fakeElement is an in-memory Element. Query results are keyed by selector.
type fakeElement struct {
	matches  []string
	children map[string][]*fakeElement

	text  string
	texts []string // successive Text results, then text
	html  string

	onClick func()
	clicks  int
	hovers  int
}

func el() *fakeElement {
	return &fakeElement{children: map[string][]*fakeElement{}}
}

func (f *fakeElement) with(selector string, children ...*fakeElement) *fakeElement {
	f.children[selector] = append(f.children[selector], children...)
	return f
}

func (f *fakeElement) Query(_ context.Context, selector string) (Element, error) {
	if c := f.children[selector]; len(c) > 0 {
		return c[0], nil
	}
	return nil, nil
}

func (f *fakeElement) QueryAll(_ context.Context, selector string) ([]Element, error) {
	var out []Element
	for _, c := range f.children[selector] {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeElement) Matches(_ context.Context, selector string) (bool, error) {
	return slices.Contains(f.matches, selector), nil
}

func (f *fakeElement) Text(context.Context) (string, error) {
	if len(f.texts) > 0 {
		s := f.texts[0]
		f.texts = f.texts[1:]
		return s, nil
	}
	return f.text, nil
}

func (f *fakeElement) HTML(context.Context) (string, error) { return f.html, nil }

func (f *fakeElement) Hover(context.Context) error {
	f.hovers++
	return nil
}

func (f *fakeElement) Click(context.Context) error {
	f.clicks++
	if f.onClick != nil {
		f.onClick()
	}
	return nil
}

// fakePage is an in-memory Page with its own clipboard.
type fakePage struct {
	*fakeElement
	clipboard string
	readErr   error
	reads     int
}

func newPage() *fakePage {
	return &fakePage{fakeElement: el()}
}

func (p *fakePage) Read(context.Context) (string, error) {
	p.reads++
	if p.readErr != nil {
		return "", p.readErr
	}
	return p.clipboard, nil
}

func (p *fakePage) Write(_ context.Context, text string) error {
	p.clipboard = text
	return nil
}

var errDenied = errors.New("NotAllowedError: Read permission denied")
