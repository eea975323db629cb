package export

import (
	"context"
	"strings"

	"chatmd/internal/extract"
	"chatmd/internal/scroll"
	"chatmd/internal/site"
)

type fakeElement struct {
	children map[string][]*fakeElement
	text     string
	html     string
	onClick  func()
}

func el() *fakeElement {
	return &fakeElement{children: map[string][]*fakeElement{}}
}

func (f *fakeElement) with(selector string, children ...*fakeElement) *fakeElement {
	f.children[selector] = append(f.children[selector], children...)
	return f
}

func (f *fakeElement) Query(_ context.Context, selector string) (extract.Element, error) {
	if c := f.children[selector]; len(c) > 0 {
		return c[0], nil
	}
	return nil, nil
}

func (f *fakeElement) QueryAll(_ context.Context, selector string) ([]extract.Element, error) {
	var out []extract.Element
	for _, c := range f.children[selector] {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeElement) Matches(context.Context, string) (bool, error) { return false, nil }
func (f *fakeElement) Text(context.Context) (string, error)          { return f.text, nil }
func (f *fakeElement) HTML(context.Context) (string, error)          { return f.html, nil }
func (f *fakeElement) Hover(context.Context) error                   { return nil }

func (f *fakeElement) Click(context.Context) error {
	if f.onClick != nil {
		f.onClick()
	}
	return nil
}

type fakeContainer struct {
	turns int
}

func (c *fakeContainer) TurnCount(context.Context) (int, error)     { return c.turns, nil }
func (c *fakeContainer) ScrollTop(context.Context) (float64, error) { return 0, nil }
func (c *fakeContainer) ScrollToTop(context.Context) error          { return nil }

// fakeHost is an in-memory chat page. Navigate swaps the document for the
// one registered under the target URL.
type fakeHost struct {
	root      *fakeElement
	clipboard string
	title     string
	url       string
	// urls, when set, are returned by successive URL calls; the last one sticks.
	urls []string

	pages      map[string]*fakeElement
	onNavigate func(target string) error
	container  *fakeContainer
}

func newHost(url string) *fakeHost {
	return &fakeHost{root: el(), url: url, pages: map[string]*fakeElement{}, container: &fakeContainer{}}
}

func (h *fakeHost) Query(ctx context.Context, selector string) (extract.Element, error) {
	return h.root.Query(ctx, selector)
}

func (h *fakeHost) QueryAll(ctx context.Context, selector string) ([]extract.Element, error) {
	return h.root.QueryAll(ctx, selector)
}

func (h *fakeHost) Read(context.Context) (string, error) { return h.clipboard, nil }

func (h *fakeHost) Write(_ context.Context, text string) error {
	h.clipboard = text
	return nil
}

func (h *fakeHost) URL(context.Context) (string, error) {
	if len(h.urls) > 0 {
		u := h.urls[0]
		if len(h.urls) > 1 {
			h.urls = h.urls[1:]
		}
		return u, nil
	}
	return h.url, nil
}

func (h *fakeHost) Title(context.Context) (string, error) { return h.title, nil }

func (h *fakeHost) ScrollContainer(string, []string) scroll.Container { return h.container }

func (h *fakeHost) Navigate(_ context.Context, target string) error {
	if h.onNavigate != nil {
		if err := h.onNavigate(target); err != nil {
			return err
		}
	}
	h.url = target
	h.root = h.pages[target]
	if h.root == nil {
		h.root = el()
	}
	return nil
}

// turn builds a turn with a user query and a model response. A non-empty
// copied text adds a copy button that puts it on the host clipboard.
func (h *fakeHost) turn(user, copied string) *fakeElement {
	q := el()
	q.text = user
	t := el().with("user-query", q).with("model-response", el())
	if copied != "" {
		btn := el()
		btn.onClick = func() { h.clipboard = copied }
		t.with("button.copy", btn)
	}
	return t
}

type testSite struct {
	profile site.Profile
}

func (s testSite) Name() string          { return "test" }
func (s testSite) Matches(h string) bool { return h == "chat.example.com" }
func (s testSite) Profile() site.Profile { return s.profile }

func (s testSite) Title(pageTitle, _ string) string {
	if t := strings.TrimSpace(pageTitle); t != "" {
		return t
	}
	return s.profile.DefaultTitle
}

func newTestSite() testSite {
	return testSite{profile: site.Profile{
		Selectors: site.Selectors{
			Turns:             []string{"div.turn"},
			User:              "user-query",
			Assistant:         "model-response",
			Copy:              []site.Control{{Selector: "button.copy"}},
			ConversationLinks: "a.conv",
		},
		Labels:       site.Labels{User: "You", Assistant: "Model"},
		Product:      "Test",
		DefaultTitle: "Test Chat Export",
		RenderTitle:  "Test Report",
		FilePrefix:   "test_chat_export",

		RenderFilePrefix: "test_report",
		PairedTurns:      true,
	}}
}
