package shutdown_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aitsclient/pkg/shutdown"
)

func TestRun(t *testing.T) {
	t.Run("runs every hook", func(t *testing.T) {
		var calls atomic.Int32
		hook := func(context.Context) error {
			calls.Add(1)
			return nil
		}
		failing := func(context.Context) error {
			calls.Add(1)
			return errors.New("close failed")
		}

		err := shutdown.Run(context.Background(), time.Second, hook, failing, hook)
		require.NoError(t, err)
		assert.EqualValues(t, 3, calls.Load())
	})

	t.Run("times out on a stuck hook", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		stuck := func(context.Context) error {
			<-release
			return nil
		}

		err := shutdown.Run(context.Background(), 20*time.Millisecond, stuck)
		require.ErrorIs(t, err, shutdown.ErrShutdownTimeout)
	})
}

func TestWaitReturnsOnContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var hookCtxErr error
	hook := func(hctx context.Context) error {
		hookCtxErr = hctx.Err()
		return nil
	}

	cancel()
	require.NoError(t, shutdown.Wait(ctx, time.Second, hook))
	assert.NoError(t, hookCtxErr, "hooks must not inherit the cancellation that triggered shutdown")
}
