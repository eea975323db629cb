package extract

import (
	"context"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	"chatmd/internal/chat"
	"chatmd/internal/config"
	"chatmd/internal/logger"
	"chatmd/internal/markdown"
	"chatmd/internal/poll"
	"chatmd/internal/site"
)

// Extractor reads message text from turns.
type Extractor struct {
	sel    site.Selectors
	timing config.Timing
	conv   *md.Converter
}

// NewExtractor returns an extractor for a site's selectors and timing.
func NewExtractor(sel site.Selectors, timing config.Timing) *Extractor {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	conv.Remove("button", "svg", "mat-icon", "script", "style")
	return &Extractor{sel: sel, timing: timing, conv: conv}
}

// User reads the user's message of t. Failures are reported in the message;
// the error is only set when ctx ends.
func (x *Extractor) User(ctx context.Context, t Turn) (chat.Message, error) {
	msg := chat.Message{Role: chat.User, Index: t.Index}

	el, err := find(ctx, t.Element, x.sel.User)
	if err := ctx.Err(); err != nil {
		return msg, err
	}
	if err != nil || el == nil {
		msg.Reason = chat.ReasonMissing
		return msg, nil
	}

	policy := poll.Policy{Attempts: x.timing.UserAttempts, Delay: x.timing.UserDelay}
	var text string
	if _, err := policy.Until(ctx, func(attempt int) (bool, error) {
		s, err := el.Text(ctx)
		if err != nil {
			logger.Debug("user message %d: read attempt %d failed: %v", t.Index+1, attempt+1, err)
			return false, nil
		}
		text = strings.TrimSpace(s)
		return text != "", nil
	}); err != nil {
		return msg, err
	}

	if text == "" {
		msg.Reason = chat.ReasonEmpty
		return msg, nil
	}
	msg.Text = text
	return msg, nil
}

// Assistant reads the assistant's message of t by pressing the site's copy
// control and reading the clipboard. When that fails the message falls back
// to the element's markup or text and records why.
func (x *Extractor) Assistant(ctx context.Context, page Page, t Turn) (chat.Message, error) {
	msg := chat.Message{Role: chat.Assistant, Index: t.Index}

	el, err := find(ctx, t.Element, x.sel.Assistant)
	if err := ctx.Err(); err != nil {
		return msg, err
	}
	if err != nil || el == nil {
		msg.Reason = chat.ReasonMissing
		return msg, nil
	}

	if err := page.Write(ctx, ""); err != nil {
		logger.Debug("assistant message %d: failed to clear clipboard: %v", t.Index+1, err)
	}

	var sawControl, denied bool
	var text string
	policy := poll.Policy{Attempts: x.timing.CopyAttempts}
	if _, err := policy.Until(ctx, func(attempt int) (bool, error) {
		if err := el.Hover(ctx); err != nil {
			logger.Debug("assistant message %d: hover failed: %v", t.Index+1, err)
		}
		if err := poll.Sleep(ctx, x.timing.HoverDelay); err != nil {
			return false, err
		}

		pressed, err := x.pressCopy(ctx, page, t.Element)
		if err != nil || !pressed {
			return false, err
		}
		sawControl = true

		if err := poll.Sleep(ctx, x.timing.ClipboardDelay); err != nil {
			return false, err
		}
		s, err := page.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			logger.Debug("assistant message %d: clipboard read failed: %v", t.Index+1, err)
			denied = true
			return true, nil
		}
		text = strings.TrimSpace(s)
		logger.Debug("assistant message %d: attempt %d read %d bytes", t.Index+1, attempt+1, len(text))
		return text != "", nil
	}); err != nil {
		return msg, err
	}

	if text != "" {
		msg.Text = markdown.StripCitations(text)
		return msg, nil
	}

	switch {
	case denied:
		msg.Reason = chat.ReasonClipboardDenied
	case !sawControl:
		msg.Reason = chat.ReasonMissingCopyControl
	default:
		msg.Reason = chat.ReasonEmptyClipboard
	}

	if fb := x.fallback(ctx, el, t.Element); fb != "" {
		msg.Text = markdown.StripCitations(fb)
		msg.Fallback = true
	}
	return msg, ctx.Err()
}

// pressCopy walks the copy-control chain. It reports false when a step's
// control is not on the page.
func (x *Extractor) pressCopy(ctx context.Context, page Page, turn Element) (bool, error) {
	for i, c := range x.sel.Copy {
		var scope Scope = turn
		if c.Global {
			scope = page
		}
		btn, err := findWithText(ctx, scope, c.Selector, c.Text)
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if err != nil || btn == nil {
			return false, nil
		}
		if err := btn.Click(ctx); err != nil {
			logger.Debug("copy control %q: click failed: %v", c.Selector, err)
			return false, ctx.Err()
		}
		if i < len(x.sel.Copy)-1 {
			if err := poll.Sleep(ctx, x.timing.StepDelay); err != nil {
				return false, err
			}
		}
	}
	return len(x.sel.Copy) > 0, nil
}

// fallback converts the message markup to Markdown, then falls back to the
// message text and finally the whole turn's text.
func (x *Extractor) fallback(ctx context.Context, el, turn Element) string {
	if h, err := el.HTML(ctx); err == nil {
		if s, err := x.conv.ConvertString(h); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	for _, e := range []Element{el, turn} {
		if s, err := e.Text(ctx); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
