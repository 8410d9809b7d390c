package client_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"event-checkin/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller(t *testing.T) {
	t.Run("Runs immediately then on each tick", func(t *testing.T) {
		p := client.NewPoller()
		var calls atomic.Int32

		p.Start(context.Background(), 10*time.Millisecond, func(context.Context) { calls.Add(1) })
		assert.Equal(t, int32(1), calls.Load())

		require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
		p.Stop()
		stopped := calls.Load()
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, stopped, calls.Load())
		assert.False(t, p.Running())
	})

	t.Run("Restart replaces the previous loop", func(t *testing.T) {
		p := client.NewPoller()
		var first, second atomic.Int32

		p.Start(context.Background(), 5*time.Millisecond, func(context.Context) { first.Add(1) })
		p.Start(context.Background(), time.Hour, func(context.Context) { second.Add(1) })
		afterRestart := first.Load()
		time.Sleep(30 * time.Millisecond)
		p.Stop()

		assert.Equal(t, afterRestart, first.Load())
		assert.Equal(t, int32(1), second.Load())
	})

	t.Run("Parent cancellation ends the loop", func(t *testing.T) {
		p := client.NewPoller()
		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32

		p.Start(ctx, 5*time.Millisecond, func(context.Context) { calls.Add(1) })
		cancel()
		p.Stop()

		n := calls.Load()
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, n, calls.Load())
	})

	t.Run("Stop without Start", func(t *testing.T) {
		client.NewPoller().Stop()
	})
}
