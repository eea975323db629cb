package trigger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	js   string
	args []any
}

type fakePage struct {
	mu      sync.Mutex
	calls   []call
	binding func() error
	stopped bool
}

func (p *fakePage) Eval(_ context.Context, js string, args ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call{js: js, args: args})
	return nil
}

func (p *fakePage) Expose(name string, fn func() error) (func() error, error) {
	if name != Binding {
		return nil, errors.New("unexpected binding " + name)
	}
	p.binding = fn
	return func() error {
		p.stopped = true
		return nil
	}, nil
}

func (p *fakePage) evals(js string) []call {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []call
	for _, c := range p.calls {
		if c.js == js {
			out = append(out, c)
		}
	}
	return out
}

func TestInstall_PlacesButton(t *testing.T) {
	p := &fakePage{}
	c := New(p, "Export Chat", func(context.Context) (string, error) { return "", nil })

	require.NoError(t, c.Install(context.Background(), true))

	require.NotNil(t, p.binding)
	ensure := p.evals(ensureJS)
	require.Len(t, ensure, 1)
	assert.Equal(t, []any{buttonID, "Export Chat", true, Binding}, ensure[0].args)
	assert.True(t, c.Visible())
}

func TestReconcile_HidesButton(t *testing.T) {
	p := &fakePage{}
	c := New(p, "Export Chat", nil)
	require.NoError(t, c.Install(context.Background(), true))

	require.NoError(t, c.Reconcile(context.Background(), false))

	ensure := p.evals(ensureJS)
	require.Len(t, ensure, 2)
	assert.Equal(t, false, ensure[1].args[2])
	assert.False(t, c.Visible())
}

func TestTrigger_ShowsResult(t *testing.T) {
	p := &fakePage{}
	c := New(p, "Export Chat", func(context.Context) (string, error) {
		return "Saved chat.md", nil
	})

	require.NoError(t, c.Trigger(context.Background()))

	busy := p.evals(busyJS)
	require.Len(t, busy, 2)
	assert.Equal(t, true, busy[0].args[1])
	assert.Equal(t, false, busy[1].args[1])

	notices := p.evals(noticeJS)
	require.Len(t, notices, 1)
	assert.Equal(t, []any{"Saved chat.md"}, notices[0].args)
}

func TestTrigger_ReportsFailure(t *testing.T) {
	p := &fakePage{}
	boom := errors.New("no chat content found")
	c := New(p, "Export Chat", func(context.Context) (string, error) { return "", boom })

	err := c.Trigger(context.Background())
	assert.ErrorIs(t, err, boom)

	notices := p.evals(noticeJS)
	require.Len(t, notices, 1)
	assert.Equal(t, []any{"Export failed: no chat content found"}, notices[0].args)
	assert.Len(t, p.evals(busyJS), 2, "button is re-enabled after a failure")
}

func TestTrigger_RejectsOverlap(t *testing.T) {
	p := &fakePage{}
	started := make(chan struct{})
	release := make(chan struct{})
	c := New(p, "Export Chat", func(context.Context) (string, error) {
		close(started)
		<-release
		return "done", nil
	})

	errc := make(chan error, 1)
	go func() { errc <- c.Trigger(context.Background()) }()
	<-started

	assert.ErrorIs(t, c.Trigger(context.Background()), ErrBusy)

	close(release)
	require.NoError(t, <-errc)

	// The lock is free again.
	c.action = func(context.Context) (string, error) { return "", nil }
	assert.NoError(t, c.Trigger(context.Background()))
}

func TestBindingRunsExport(t *testing.T) {
	p := &fakePage{}
	ran := make(chan struct{}, 1)
	c := New(p, "Export Chat", func(context.Context) (string, error) {
		ran <- struct{}{}
		return "", nil
	})
	require.NoError(t, c.Install(context.Background(), true))

	require.NoError(t, p.binding())
	c.Wait()

	assert.Len(t, ran, 1)
}

func TestClose(t *testing.T) {
	p := &fakePage{}
	c := New(p, "Export Chat", nil)
	require.NoError(t, c.Install(context.Background(), true))

	require.NoError(t, c.Close(context.Background()))
	assert.True(t, p.stopped)
	assert.Len(t, p.evals(removeJS), 1)
}
