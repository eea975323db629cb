// Package poll holds the bounded waiting primitives used against the live page.
package poll

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Policy bounds a polling loop.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Until calls fn up to p.Attempts times, sleeping p.Delay between calls,
// and stops at the first call that reports done or returns an error.
// It returns whether any call reported done.
func (p Policy) Until(ctx context.Context, fn func(attempt int) (bool, error)) (bool, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := Sleep(ctx, p.Delay); err != nil {
				return false, err
			}
		}
		done, err := fn(i)
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
	}
	return false, nil
}
