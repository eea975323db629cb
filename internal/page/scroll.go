package page

import (
	"context"
	"strings"

	"chatmd/internal/scroll"
)

// Container is the scrollable history element, addressed by selector so it
// survives re-renders.
type Container struct {
	page      *Page
	container string
	turns     string
}

// ScrollContainer returns the history container matched by selector. Turns
// are counted with the union of turnSelectors.
func (p *Page) ScrollContainer(selector string, turnSelectors []string) scroll.Container {
	return &Container{page: p, container: selector, turns: strings.Join(turnSelectors, ", ")}
}

func (c *Container) TurnCount(ctx context.Context) (int, error) {
	res, err := c.page.page.Context(ctx).Eval(`(sel) => document.querySelectorAll(sel).length`, c.turns)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

func (c *Container) ScrollTop(ctx context.Context) (float64, error) {
	res, err := c.page.page.Context(ctx).Eval(`(sel) => {
		const c = document.querySelector(sel);
		return c ? c.scrollTop : 0;
	}`, c.container)
	if err != nil {
		return 0, err
	}
	return res.Value.Num(), nil
}

func (c *Container) ScrollToTop(ctx context.Context) error {
	_, err := c.page.page.Context(ctx).Eval(`(sel) => {
		const c = document.querySelector(sel);
		if (c) c.scrollTop = 0;
	}`, c.container)
	return err
}
