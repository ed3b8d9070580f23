package resilience

import (
	"context"
	"errors"
	"time"
)

// Settings are the plain config values for one collaborator's policy.
type Settings struct {
	MaxAttempts      int
	InitialBackoffMs int
	MaxBackoffMs     int
	FailureThreshold int
	CooldownSecs     int
}

// Guard retries transient failures of one collaborator behind a circuit
// breaker. Each attempt counts toward the breaker.
type Guard struct {
	service string
	retry   RetryConfig
	breaker *Breaker
}

// NewGuard builds a Guard from settings. Zero values take the defaults.
func NewGuard(service string, s Settings) *Guard {
	retry := DefaultRetryConfig()
	if s.MaxAttempts > 0 {
		retry.MaxAttempts = s.MaxAttempts
	}
	if s.InitialBackoffMs > 0 {
		retry.InitialBackoff = time.Duration(s.InitialBackoffMs) * time.Millisecond
	}
	if s.MaxBackoffMs > 0 {
		retry.MaxBackoff = time.Duration(s.MaxBackoffMs) * time.Millisecond
	}
	retry.ShouldRetry = func(err error) bool {
		return !errors.Is(err, ErrCircuitOpen) && IsTransient(err)
	}

	return &Guard{
		service: service,
		retry:   retry,
		breaker: NewBreaker(service, BreakerConfig{
			FailureThreshold: s.FailureThreshold,
			Cooldown:         time.Duration(s.CooldownSecs) * time.Second,
		}),
	}
}

// Breaker exposes the guard's breaker for health reporting.
func (g *Guard) Breaker() *Breaker { return g.breaker }

// Run calls fn under the guard's retry and breaker policy.
func Run[T any](ctx context.Context, g *Guard, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg := g.retry
	cfg.OnRetry = LogRetry(g.service, op)
	return DoVal(ctx, cfg, func(ctx context.Context) (T, error) {
		return Call(ctx, g.breaker, fn)
	})
}
