package github

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Wait(t *testing.T) {
	rl := NewRateLimiter()
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx))

	// Second call enforces the minimum delay between requests
	start := time.Now()
	require.NoError(t, rl.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), minRequestDelay)
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	rl := NewRateLimiter()
	// Exhausted quota with a reset far in the future forces a wait
	rl.UpdateLimit(0, time.Now().Add(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_UpdateLimit(t *testing.T) {
	rl := NewRateLimiter()
	rl.UpdateLimit(4999, time.Now().Add(time.Hour))

	// Plenty of quota left, Wait returns promptly
	require.NoError(t, rl.Wait(context.Background()))
}
