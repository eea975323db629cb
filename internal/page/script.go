package page

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Eval runs a JavaScript function in the page and discards its result.
func (p *Page) Eval(ctx context.Context, js string, args ...any) error {
	_, err := p.page.Context(ctx).Eval(js, args...)
	return err
}

// Expose makes window[name]() call fn. The returned stop removes the binding.
func (p *Page) Expose(name string, fn func() error) (func() error, error) {
	stop, err := p.page.Expose(name, func(gson.JSON) (interface{}, error) {
		if err := fn(); err != nil {
			return err.Error(), nil
		}
		return "", nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expose %s: %w", name, err)
	}
	return stop, nil
}

// OnNavigate calls fn after each main-frame navigation until ctx is done.
func (p *Page) OnNavigate(ctx context.Context, fn func()) {
	wait := p.page.Context(ctx).EachEvent(func(e *proto.PageFrameNavigated) {
		if e.Frame.ParentID == "" {
			go fn()
		}
	})
	go wait()
}
