package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitEnforcesMinimumInterval(t *testing.T) {
	l := New(10) // 100ms interval
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx))
	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
}

func TestWaitRespectsContextCancellation(t *testing.T) {
	l := New(1) // 1s interval, second Wait call would normally block
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, l.Wait(ctx))
	cancel()
	err := l.Wait(ctx)
	assert.Error(t, err)
}

func TestSetCrawlDelayWidensInterval(t *testing.T) {
	l := New(100) // 10ms base interval
	l.SetCrawlDelay(150 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx))
	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 120*time.Millisecond)
}

func TestSetCrawlDelayIgnoresNarrowerDelay(t *testing.T) {
	l := New(10) // 100ms base interval
	l.SetCrawlDelay(1 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx))
	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
}
