package httputil

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Default limits for outbound registry traffic.
const (
	DefaultMaxConcurrent = 10
	DefaultCallSpacing   = 100 * time.Millisecond
)

// Limiter bounds concurrent outbound calls and spaces their start times.
// A single Limiter is shared by every resolver in a run.
type Limiter struct {
	sem  *semaphore.Weighted
	rate *rate.Limiter
	max  int64
}

// NewLimiter returns a limiter allowing maxConcurrent in-flight calls, each
// started at least spacing after the previous one. Non-positive values fall
// back to the defaults; a negative spacing disables spacing.
func NewLimiter(maxConcurrent int, spacing time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if spacing == 0 {
		spacing = DefaultCallSpacing
	}
	lim := rate.Inf
	if spacing > 0 {
		lim = rate.Every(spacing)
	}
	return &Limiter{
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
		rate: rate.NewLimiter(lim, 1),
		max:  int64(maxConcurrent),
	}
}

// Max returns the concurrency cap.
func (l *Limiter) Max() int { return int(l.max) }

// Do waits for a slot, runs fn and releases the slot.
// It returns ctx.Err() without running fn if the context ends while waiting.
func (l *Limiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)

	if err := l.rate.Wait(ctx); err != nil {
		return err
	}
	return fn(ctx)
}
