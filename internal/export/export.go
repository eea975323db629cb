// Package export runs an export against a live chat page: load the history,
// locate turns, filter them through the selection, extract each message,
// assemble the document and deliver it.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"chatmd/internal/chat"
	"chatmd/internal/config"
	"chatmd/internal/extract"
	"chatmd/internal/logger"
	"chatmd/internal/markdown"
	"chatmd/internal/scroll"
	"chatmd/internal/selection"
	"chatmd/internal/sink"
	"chatmd/internal/site"
)

// Host is the live page an export runs against.
type Host interface {
	extract.Page
	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	ScrollContainer(selector string, turnSelectors []string) scroll.Container
}

// Options shape one export.
type Options struct {
	// From is the 1-based first turn to export. Earlier turns are skipped.
	From int
	// Preset, when set, is applied before Toggles.
	Preset  selection.Preset
	Toggles []selection.Key

	Mode     sink.Mode
	FileName string
}

// Result describes a finished export.
type Result struct {
	RunID    string
	Title    string
	Path     string
	Turns    int
	Messages int
	Failures []chat.Message
	Scroll   scroll.Result
	// Report is set when the render root was exported instead of turns.
	Report bool
}

// Exporter exports conversations of one site.
type Exporter struct {
	site      site.Site
	profile   site.Profile
	timing    config.Timing
	loader    *scroll.Loader
	locator   *extract.Locator
	extractor *extract.Extractor
	selection *selection.Model
	sink      *sink.Sink

	now func() time.Time
}

// New builds an exporter. timing should already carry config overrides;
// the site's own tuning is applied here.
func New(s site.Site, timing config.Timing, sel *selection.Model, out *sink.Sink) *Exporter {
	p := s.Profile()
	timing = p.Timing(timing)
	return &Exporter{
		site:      s,
		profile:   p,
		timing:    timing,
		loader:    scroll.NewLoader(timing),
		locator:   extract.NewLocator(p.Selectors),
		extractor: extract.NewExtractor(p.Selectors, timing),
		selection: sel,
		sink:      out,
		now:       time.Now,
	}
}

// Run builds the document and delivers it. The selection is reset once the
// export has been delivered.
func (e *Exporter) Run(ctx context.Context, host Host, opts Options) (*Result, error) {
	doc, res, err := e.Build(ctx, host, opts)
	if err != nil {
		return nil, err
	}

	prefix := e.profile.FilePrefix
	if res.Report && e.profile.RenderFilePrefix != "" {
		prefix = e.profile.RenderFilePrefix
	}
	name := chat.Filename(opts.FileName, e.fileTitle(doc.Title), prefix, doc.ExportedAt)
	path, err := e.sink.Deliver(ctx, opts.Mode, name, doc.Markdown())
	if err != nil {
		return nil, err
	}
	res.Path = path
	e.selection.Reset()
	return res, nil
}

// Build produces the document without delivering it. Nothing is returned
// when the page is lost half way.
func (e *Exporter) Build(ctx context.Context, host Host, opts Options) (*chat.Document, *Result, error) {
	res := &Result{RunID: uuid.NewString()}
	tag := e.site.Name()
	logger.Section("Export " + res.RunID)

	startURL, err := host.URL(ctx)
	if err != nil {
		return nil, nil, lost(err)
	}

	if root := e.profile.Selectors.RenderRoot; root != "" {
		panel, err := host.Query(ctx, root)
		if err != nil {
			return nil, nil, lost(err)
		}
		if panel != nil {
			logger.Progress(tag, "exporting rendered report")
			doc, err := e.buildReport(ctx, host, panel, startURL, opts, res)
			return doc, res, err
		}
	}

	if sel := e.profile.Selectors.ScrollContainer; sel != "" {
		c, err := host.Query(ctx, sel)
		if err != nil {
			return nil, nil, lost(err)
		}
		if c == nil {
			return nil, nil, chat.ErrContainerNotFound
		}
		logger.Progress(tag, "loading full history")
		res.Scroll = e.loader.LoadAll(ctx, host.ScrollContainer(sel, e.profile.Selectors.Turns))
		logger.Debug("scroll: %d iterations, %d turns, converged=%v", res.Scroll.Iterations, res.Scroll.Turns, res.Scroll.Converged)
	}

	title := e.pageTitle(ctx, host, startURL)
	doc, err := e.buildTurns(ctx, host, host, startURL, title, opts, res)
	if err != nil {
		return nil, nil, err
	}
	return doc, res, nil
}

// buildReport renders the report panel. An empty render falls back to turn
// extraction inside the panel.
func (e *Exporter) buildReport(ctx context.Context, host Host, panel extract.Element, startURL string, opts Options, res *Result) (*chat.Document, error) {
	title := e.profile.RenderTitle
	if title == "" {
		title = e.profile.DefaultTitle
	}
	res.Title = title
	res.Report = true

	src, err := panel.HTML(ctx)
	if err != nil {
		return nil, lost(err)
	}
	body, err := markdown.RenderString(src)
	if err != nil {
		return nil, err
	}
	if body == "" {
		logger.Debug("report rendered empty, extracting turns inside it")
		return e.buildTurns(ctx, host, panel, startURL, title, opts, res)
	}

	res.Turns = 1
	res.Messages = 1
	b := chat.NewBuilder(title, e.now())
	b.Add("", body)
	doc := b.Document()
	doc.Sections[0].Rule = false
	return doc, nil
}

func (e *Exporter) buildTurns(ctx context.Context, host Host, root extract.Scope, startURL, title string, opts Options, res *Result) (*chat.Document, error) {
	tag := e.site.Name()

	turns, err := e.locator.FindTurns(ctx, root)
	if err != nil {
		if ctx.Err() != nil {
			return nil, lost(err)
		}
		return nil, err
	}
	res.Turns = len(turns)
	logger.Progress(tag, "found %d turns", len(turns))

	e.observe(turns)
	if opts.Preset != "" {
		e.selection.Apply(opts.Preset)
	}
	for _, k := range opts.Toggles {
		if !e.selection.Toggle(k) {
			logger.Warn("ignoring toggle %s: no such message", k)
		}
	}

	from := max(opts.From-1, 0)
	if e.selection.IncludedCount(from) == 0 {
		return nil, chat.ErrNothingSelected
	}

	res.Title = title
	b := chat.NewBuilder(title, e.now())
	labels := e.profile.Labels

	for _, t := range turns {
		if t.Index < from {
			continue
		}
		if err := e.checkAlive(ctx, host, startURL); err != nil {
			return nil, err
		}

		if e.wants(t, chat.User) {
			msg, err := e.extractor.User(ctx, t)
			if err != nil {
				return nil, lost(err)
			}
			e.record(res, msg)
			b.Add(labels.User, msg.Body())
		}
		if e.wants(t, chat.Assistant) {
			msg, err := e.extractor.Assistant(ctx, host, t)
			if err != nil {
				return nil, lost(err)
			}
			e.record(res, msg)
			b.Add(labels.Assistant, msg.Body())
		}
		b.EndTurn()
		logger.Debug("turn %d/%d done", t.Index+1, len(turns))
	}

	if err := e.checkAlive(ctx, host, startURL); err != nil {
		return nil, err
	}
	logger.Progress(tag, "exported %d messages (%d with notes)", res.Messages, len(res.Failures))
	return b.Document(), nil
}

// observe registers the messages each turn can contribute.
func (e *Exporter) observe(turns []extract.Turn) {
	for _, t := range turns {
		if t.HasUser || e.profile.PairedTurns {
			e.selection.Observe(selection.Key{Index: t.Index, Role: chat.User})
		}
		if t.HasAssistant || e.profile.PairedTurns {
			e.selection.Observe(selection.Key{Index: t.Index, Role: chat.Assistant})
		}
	}
}

func (e *Exporter) wants(t extract.Turn, role chat.Role) bool {
	present := e.profile.PairedTurns || (role == chat.User && t.HasUser) || (role == chat.Assistant && t.HasAssistant)
	return present && e.selection.Included(selection.Key{Index: t.Index, Role: role})
}

func (e *Exporter) record(res *Result, msg chat.Message) {
	res.Messages++
	if !msg.OK() {
		res.Failures = append(res.Failures, msg)
		logger.Warn("message %d (%s): %s", msg.Index+1, msg.Role, msg.Reason)
	}
}

func (e *Exporter) pageTitle(ctx context.Context, host Host, pageURL string) string {
	t, err := host.Title(ctx)
	if err != nil {
		logger.Debug("failed to read page title: %v", err)
	}
	return e.site.Title(t, pageURL)
}

// fileTitle is the title used for the filename. Fixed site titles say nothing
// about the conversation, so they fall through to the prefix.
func (e *Exporter) fileTitle(title string) string {
	if title == e.profile.DefaultTitle || title == e.profile.RenderTitle {
		return ""
	}
	return title
}

// checkAlive fails when the run was cancelled or the page left the
// conversation being exported.
func (e *Exporter) checkAlive(ctx context.Context, host Host, startURL string) error {
	if err := ctx.Err(); err != nil {
		return lost(err)
	}
	u, err := host.URL(ctx)
	if err != nil {
		return lost(err)
	}
	if stripFragment(u) != stripFragment(startURL) {
		return fmt.Errorf("%w: page moved to %s", chat.ErrHostContextLost, u)
	}
	return nil
}

func lost(err error) error {
	if errors.Is(err, chat.ErrHostContextLost) {
		return err
	}
	return fmt.Errorf("%w: %w", chat.ErrHostContextLost, err)
}

func stripFragment(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}
