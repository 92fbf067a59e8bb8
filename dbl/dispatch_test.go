package dbl

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsAllWork(t *testing.T) {
	d := newDispatcher(2)

	var ran atomic.Int32
	block := make(chan struct{})

	// More jobs than workers plus queue capacity; Submit must not block.
	start := time.Now()
	for range 20 {
		require.NoError(t, d.Submit(func() {
			<-block
			ran.Add(1)
		}))
	}
	assert.Less(t, time.Since(start), time.Second)

	close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	assert.Equal(t, int32(20), ran.Load())
}

func TestDispatcher_SubmitAfterStop(t *testing.T) {
	d := newDispatcher(1)
	require.NoError(t, d.Stop(context.Background()))

	err := d.Submit(func() {})
	assert.ErrorIs(t, err, ErrClientClosed)

	// Stop is idempotent.
	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcher_StopHonoursContext(t *testing.T) {
	d := newDispatcher(1)
	release := make(chan struct{})
	require.NoError(t, d.Submit(func() { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, d.Stop(context.Background()))
}
