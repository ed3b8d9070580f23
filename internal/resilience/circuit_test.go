package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(threshold int, cooldown time.Duration) (*Breaker, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := NewBreaker("test", BreakerConfig{FailureThreshold: threshold, Cooldown: cooldown})
	b.now = clk.now
	return b, clk
}

var errBoom = errors.New("boom")

func fail(context.Context) (int, error) { return 0, errBoom }
func ok(context.Context) (int, error)   { return 1, nil }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute)
	ctx := context.Background()

	_, _ = Call(ctx, b, fail)
	assert.Equal(t, Closed, b.State())
	_, _ = Call(ctx, b, fail)
	assert.Equal(t, Open, b.State())

	called := false
	_, err := Call(ctx, b, func(context.Context) (int, error) {
		called = true
		return 0, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute)
	ctx := context.Background()

	_, _ = Call(ctx, b, fail)
	_, _ = Call(ctx, b, ok)
	_, _ = Call(ctx, b, fail)
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	b, clk := newTestBreaker(1, 10*time.Second)
	ctx := context.Background()

	_, _ = Call(ctx, b, fail)
	assert.Equal(t, Open, b.State())

	clk.advance(10 * time.Second)
	assert.Equal(t, HalfOpen, b.State())

	// Failed probe reopens.
	_, err := Call(ctx, b, fail)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, Open, b.State())

	clk.advance(10 * time.Second)
	v, err := Call(ctx, b, ok)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, Closed, b.State())
}

func TestNewBreakerDefaults(t *testing.T) {
	b := NewBreaker("x", BreakerConfig{})
	assert.Equal(t, DefaultBreakerConfig(), b.cfg)
	assert.Equal(t, "half-open", HalfOpen.String())
}

func TestGuard_RetriesTransientThenSucceeds(t *testing.T) {
	g := NewGuard("svc", Settings{MaxAttempts: 3, InitialBackoffMs: 1, MaxBackoffMs: 2})
	calls := 0
	v, err := Run(context.Background(), g, "op", func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", NewTransientError(errors.New("503"), 503)
		}
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", v)
	assert.Equal(t, 2, calls)
	assert.Equal(t, Closed, g.Breaker().State())
}

func TestGuard_DoesNotRetryOpenCircuit(t *testing.T) {
	g := NewGuard("svc", Settings{MaxAttempts: 5, InitialBackoffMs: 1, MaxBackoffMs: 1, FailureThreshold: 1, CooldownSecs: 60})
	calls := 0
	_, err := Run(context.Background(), g, "op", func(context.Context) (int, error) {
		calls++
		return 0, NewTransientError(errors.New("down"), 503)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 1, calls)
}
