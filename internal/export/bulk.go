package export

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"chatmd/internal/chat"
	"chatmd/internal/logger"
	"chatmd/internal/poll"
	"chatmd/internal/selection"
)

// Navigator is a Host that can be pointed at another conversation.
type Navigator interface {
	Host
	Navigate(ctx context.Context, target string) error
}

// Conversation is one entry of a conversation listing.
type Conversation struct {
	URL   string
	Title string
}

// BulkResult summarises a bulk export.
type BulkResult struct {
	Path     string
	Total    int
	Exported int
	Failed   []Conversation
	Partial  bool
}

const (
	checkpointEvery = 50
	showMoreLabels  = "show more|load more"
)

// Discover expands the conversation listing and returns its conversations in
// page order without duplicates.
func (e *Exporter) Discover(ctx context.Context, host Host) ([]Conversation, error) {
	sel := e.profile.Selectors.ConversationLinks
	if sel == "" {
		return nil, fmt.Errorf("%s does not support bulk export", e.site.Name())
	}
	base, err := host.URL(ctx)
	if err != nil {
		return nil, lost(err)
	}

	for i := 0; i < e.timing.MaxScrollIterations; i++ {
		more, err := e.showMore(ctx, host)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		if err := poll.Sleep(ctx, e.timing.ScrollSettle); err != nil {
			return nil, lost(err)
		}
	}

	links, err := host.QueryAll(ctx, sel)
	if err != nil {
		return nil, lost(err)
	}
	var convs []Conversation
	for _, l := range links {
		src, err := l.HTML(ctx)
		if err != nil {
			continue
		}
		c, ok := parseLink(src, base)
		if ok {
			convs = append(convs, c)
		}
	}
	convs = lo.UniqBy(convs, func(c Conversation) string { return c.URL })
	if len(convs) == 0 {
		return nil, chat.ErrNoContentFound
	}
	logger.Progress(e.site.Name(), "found %d conversations", len(convs))
	return convs, nil
}

// showMore clicks the first visible "show more" style button.
func (e *Exporter) showMore(ctx context.Context, host Host) (bool, error) {
	buttons, err := host.QueryAll(ctx, "button")
	if err != nil {
		return false, lost(err)
	}
	for _, b := range buttons {
		text, err := b.Text(ctx)
		if err != nil {
			continue
		}
		text = strings.ToLower(strings.TrimSpace(text))
		for _, label := range strings.Split(showMoreLabels, "|") {
			if strings.Contains(text, label) {
				logger.Debug("bulk: clicking %q", text)
				return true, b.Click(ctx)
			}
		}
	}
	return false, nil
}

func parseLink(src, base string) (Conversation, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return Conversation{}, false
	}
	a := doc.Find("a[href]").First()
	href, ok := a.Attr("href")
	if !ok || href == "" || strings.HasPrefix(href, "#") {
		return Conversation{}, false
	}
	b, err := url.Parse(base)
	if err != nil {
		return Conversation{}, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return Conversation{}, false
	}
	u := b.ResolveReference(ref)
	u.Fragment = ""
	return Conversation{URL: u.String(), Title: strings.Join(strings.Fields(a.Text()), " ")}, true
}

// Bulk exports each conversation in turn and combines them into a single
// document with a table of contents. Every conversation is exported in full.
// Progress is checkpointed to a partial file; when ctx is cancelled the
// conversations done so far are still written, marked partial.
func (e *Exporter) Bulk(ctx context.Context, nav Navigator, convs []Conversation, opts Options) (*BulkResult, error) {
	res := &BulkResult{Total: len(convs)}
	started := e.now()
	limiter := rate.NewLimiter(rate.Every(e.timing.BulkInterval), 1)
	var done []*chat.Document

	for i, c := range convs {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		logger.Progress(e.site.Name(), "(%d/%d) %s", i+1, len(convs), c.URL)

		doc, err := e.one(ctx, nav, c)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Warn("skipping %s: %v", c.URL, err)
			res.Failed = append(res.Failed, c)
			continue
		}
		done = append(done, doc)

		if len(done)%checkpointEvery == 0 {
			content := e.combine(done, started, true, len(convs))
			if _, err := e.sink.Deliver(ctx, opts.Mode, e.site.Name()+"_chats_partial.md", content); err != nil {
				logger.Warn("checkpoint failed: %v", err)
			}
		}
	}
	res.Exported = len(done)

	if ctx.Err() != nil {
		res.Partial = true
		if len(done) == 0 {
			return res, lost(ctx.Err())
		}
		// Deliver what we have even though the run was cancelled.
		name := chat.Filename("", "", e.site.Name()+"_chats_partial", started)
		path, err := e.sink.Deliver(context.WithoutCancel(ctx), opts.Mode, name, e.combine(done, started, true, len(convs)))
		if err != nil {
			return res, err
		}
		res.Path = path
		return res, nil
	}
	if len(done) == 0 {
		return res, chat.ErrNoContentFound
	}

	name := chat.Filename(opts.FileName, "", e.site.Name()+"_all_chats", started)
	path, err := e.sink.Deliver(ctx, opts.Mode, name, e.combine(done, started, false, len(convs)))
	if err != nil {
		return res, err
	}
	res.Path = path
	return res, nil
}

// one exports a single conversation with everything selected.
func (e *Exporter) one(ctx context.Context, nav Navigator, c Conversation) (*chat.Document, error) {
	if err := nav.Navigate(ctx, c.URL); err != nil {
		return nil, err
	}
	defer e.selection.Reset()
	doc, _, err := e.Build(ctx, nav, Options{Preset: selection.All})
	if err != nil {
		return nil, err
	}
	if c.Title != "" && (doc.Title == e.profile.DefaultTitle || doc.Title == "") {
		doc.Title = c.Title
	}
	return doc, nil
}

func (e *Exporter) combine(docs []*chat.Document, at time.Time, partial bool, total int) string {
	var b strings.Builder
	heading := e.profile.Product + " Conversations Export"
	if partial {
		heading += " (Partial)"
	}
	fmt.Fprintf(&b, "# %s\n\n> Exported on: %s\n", heading, at.Format(chat.TimestampLayout))
	if partial {
		fmt.Fprintf(&b, "> Total conversations: %d of %d (in progress)\n\n---\n\n", len(docs), total)
	} else {
		fmt.Fprintf(&b, "> Total conversations: %d\n\n---\n\n", len(docs))
	}

	b.WriteString("# Table of Contents\n\n")
	for i, d := range docs {
		fmt.Fprintf(&b, "%d. [%s](#conversation-%d)\n", i+1, d.Title, i+1)
	}
	b.WriteString("\n---\n\n")

	for i, d := range docs {
		fmt.Fprintf(&b, "<a id=\"conversation-%d\"></a>\n\n", i+1)
		b.WriteString(d.Markdown())
	}
	return b.String()
}
