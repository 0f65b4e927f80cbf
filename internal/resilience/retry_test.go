package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestDoValSucceedsFirstTry(t *testing.T) {
	calls := 0
	val, err := DoVal(context.Background(), fastConfig(), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 1, calls)
}

func TestDoValRecoversAfterFailures(t *testing.T) {
	calls := 0
	val, err := DoVal(context.Background(), fastConfig(), func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, eris.New("transient")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Equal(t, 3, calls)
}

func TestDoValExhaustsAttempts(t *testing.T) {
	calls := 0
	retries := 0
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, err error) { retries++ }

	_, err := DoVal(context.Background(), cfg, func(ctx context.Context) (int, error) {
		calls++
		return 0, eris.New("permanent")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestDoValStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := DoVal(ctx, fastConfig(), func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, eris.New("fail")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestComputeBackoffGrowth(t *testing.T) {
	cfg := applyDefaults(RetryConfig{InitialBackoff: time.Second, Multiplier: 2, MaxBackoff: 3 * time.Second})
	assert.Equal(t, time.Second, computeBackoff(0, cfg))
	assert.Equal(t, 2*time.Second, computeBackoff(1, cfg))
	// Capped at MaxBackoff.
	assert.Equal(t, 3*time.Second, computeBackoff(2, cfg))
}
