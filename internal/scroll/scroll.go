// Package scroll forces a lazily loaded chat history to render every turn by
// repeatedly scrolling its container to the top.
package scroll

import (
	"context"
	"time"

	"chatmd/internal/config"
	"chatmd/internal/logger"
	"chatmd/internal/poll"
)

// Container is the scrollable history element of a chat page.
type Container interface {
	TurnCount(ctx context.Context) (int, error)
	ScrollTop(ctx context.Context) (float64, error)
	ScrollToTop(ctx context.Context) error
}

// Result summarises a load.
type Result struct {
	Iterations int
	Turns      int
	Converged  bool
}

// Loader scrolls until the turn count stops changing.
type Loader struct {
	Settle           time.Duration
	StableIterations int
	MaxIterations    int

	sleep func(context.Context, time.Duration) error
}

// NewLoader builds a loader from the timing configuration.
func NewLoader(t config.Timing) *Loader {
	return &Loader{
		Settle:           t.ScrollSettle,
		StableIterations: t.StableIterations,
		MaxIterations:    t.MaxScrollIterations,
		sleep:            poll.Sleep,
	}
}

// LoadAll scrolls c to the top until the turn count has been stable for
// StableIterations consecutive iterations or MaxIterations is reached.
// It never fails: container errors and cancellation end the load early with
// whatever has rendered so far.
func (l *Loader) LoadAll(ctx context.Context, c Container) Result {
	sleep := l.sleep
	if sleep == nil {
		sleep = poll.Sleep
	}

	var res Result
	count, err := c.TurnCount(ctx)
	if err != nil {
		logger.Warn("scroll: failed to count turns: %v", err)
		return res
	}
	res.Turns = count

	var lastTop *float64
	stable := 0
	for res.Iterations < l.MaxIterations && stable < l.StableIterations {
		res.Iterations++

		if err := c.ScrollToTop(ctx); err != nil {
			logger.Warn("scroll: failed to scroll: %v", err)
			return res
		}
		if err := sleep(ctx, l.Settle); err != nil {
			return res
		}

		newCount, err := c.TurnCount(ctx)
		if err != nil {
			logger.Warn("scroll: failed to count turns: %v", err)
			return res
		}
		top, err := c.ScrollTop(ctx)
		if err != nil {
			logger.Warn("scroll: failed to read scroll position: %v", err)
			return res
		}

		if newCount == count && ((lastTop != nil && *lastTop == top) || top == 0) {
			stable++
		} else {
			stable = 0
		}
		logger.Debug("scroll: iteration %d, turns %d -> %d, top %.0f, stable %d", res.Iterations, count, newCount, top, stable)

		count = newCount
		lastTop = &top
		res.Turns = count
	}

	res.Converged = stable >= l.StableIterations
	return res
}
