package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Sleep(ctx, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSleep_Zero(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), 0))
}

func TestUntil_StopsWhenDone(t *testing.T) {
	calls := 0
	done, err := Policy{Attempts: 5}.Until(context.Background(), func(int) (bool, error) {
		calls++
		return calls == 2, nil
	})

	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 2, calls)
}

func TestUntil_ExhaustsAttempts(t *testing.T) {
	calls := 0
	done, err := Policy{Attempts: 3}.Until(context.Background(), func(int) (bool, error) {
		calls++
		return false, nil
	})

	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 3, calls)
}

func TestUntil_AtLeastOnce(t *testing.T) {
	calls := 0
	_, _ = Policy{}.Until(context.Background(), func(int) (bool, error) {
		calls++
		return false, nil
	})

	assert.Equal(t, 1, calls)
}

func TestUntil_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := Policy{Attempts: 3}.Until(context.Background(), func(int) (bool, error) {
		return false, boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestUntil_CancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Policy{Attempts: 3, Delay: time.Millisecond}.Until(ctx, func(int) (bool, error) {
		calls++
		cancel()
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
