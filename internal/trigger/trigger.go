// Package trigger places an export button inside the chat page and runs the
// export when it is clicked.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"chatmd/internal/logger"
)

// Binding is the window function the button calls.
const Binding = "chatmdExport"

const (
	buttonID  = "chatmd-export-button"
	busyLabel = "Exporting..."
)

// ErrBusy is returned when an export is already running.
var ErrBusy = errors.New("export already in progress")

// Page is the part of the browser page the control needs.
type Page interface {
	Eval(ctx context.Context, js string, args ...any) error
	Expose(name string, fn func() error) (func() error, error)
}

// Action performs one export and returns the message shown to the user.
type Action func(ctx context.Context) (string, error)

// Control is the in-page export button.
type Control struct {
	page   Page
	label  string
	action Action

	busy sync.Mutex

	mu      sync.Mutex
	visible bool
	stop    func() error
	// wg tracks exports started from the page.
	wg sync.WaitGroup
}

// New returns a control labelled label that runs action.
func New(p Page, label string, action Action) *Control {
	return &Control{page: p, label: label, action: action}
}

// Install binds the page callback and shows or hides the button. Clicks run
// the action with ctx.
func (c *Control) Install(ctx context.Context, visible bool) error {
	stop, err := c.page.Expose(Binding, func() error {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := c.Trigger(ctx); err != nil && !errors.Is(err, ErrBusy) {
				logger.Warn("export failed: %v", err)
			}
		}()
		return nil
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.stop = stop
	c.mu.Unlock()
	return c.Reconcile(ctx, visible)
}

// Reconcile makes the button match visible, creating it again when the page
// has replaced its document.
func (c *Control) Reconcile(ctx context.Context, visible bool) error {
	c.mu.Lock()
	c.visible = visible
	c.mu.Unlock()

	if err := c.page.Eval(ctx, ensureJS, buttonID, c.label, visible, Binding); err != nil {
		return fmt.Errorf("failed to place export button: %w", err)
	}
	logger.Debug("export button visible=%v", visible)
	return nil
}

// Visible reports the last reconciled visibility.
func (c *Control) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Trigger runs the action unless one is already running. The button is
// disabled meanwhile and the outcome is shown in the page.
func (c *Control) Trigger(ctx context.Context) error {
	if !c.busy.TryLock() {
		c.notify(ctx, "An export is already in progress.")
		return ErrBusy
	}
	defer c.busy.Unlock()

	c.setBusy(ctx, true)
	defer c.setBusy(context.WithoutCancel(ctx), false)

	msg, err := c.action(ctx)
	if err != nil {
		c.notify(context.WithoutCancel(ctx), "Export failed: "+err.Error())
		return err
	}
	c.notify(ctx, msg)
	return nil
}

// Wait blocks until exports started from the page have finished.
func (c *Control) Wait() {
	c.wg.Wait()
}

// Close removes the button and the binding.
func (c *Control) Close(ctx context.Context) error {
	c.mu.Lock()
	stop := c.stop
	c.stop = nil
	c.mu.Unlock()

	err := c.page.Eval(ctx, removeJS, buttonID)
	if stop != nil {
		err = errors.Join(err, stop())
	}
	return err
}

func (c *Control) setBusy(ctx context.Context, busy bool) {
	if err := c.page.Eval(ctx, busyJS, buttonID, busy, c.label, busyLabel); err != nil {
		logger.Debug("failed to update export button: %v", err)
	}
}

func (c *Control) notify(ctx context.Context, msg string) {
	if msg == "" {
		return
	}
	if err := c.page.Eval(ctx, noticeJS, msg); err != nil {
		logger.Debug("failed to show notice: %v", err)
	}
}

const ensureJS = `(id, label, visible, binding) => {
	let btn = document.getElementById(id);
	if (!btn) {
		btn = document.createElement('button');
		btn.id = id;
		btn.type = 'button';
		btn.textContent = label;
		btn.style.cssText = 'position:fixed;right:20px;bottom:20px;z-index:2147483647;' +
			'padding:8px 14px;border:none;border-radius:8px;background:#1a73e8;color:#fff;' +
			'font:500 14px sans-serif;cursor:pointer;box-shadow:0 2px 6px rgba(0,0,0,.3);';
		btn.addEventListener('click', () => {
			if (!btn.disabled) window[binding]();
		});
		document.body.appendChild(btn);
	}
	btn.style.display = visible ? '' : 'none';
}`

const busyJS = `(id, busy, label, busyLabel) => {
	const btn = document.getElementById(id);
	if (!btn) return;
	btn.disabled = busy;
	btn.textContent = busy ? busyLabel : label;
	btn.style.opacity = busy ? '0.6' : '1';
}`

const noticeJS = `(msg) => { setTimeout(() => alert(msg), 0); }`

const removeJS = `(id) => {
	const btn = document.getElementById(id);
	if (btn) btn.remove();
}`
