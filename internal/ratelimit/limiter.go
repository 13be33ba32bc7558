// Package ratelimit implements fixed-window request limiting over a
// pluggable counter store.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store counts hits for a key within a fixed window
type Store interface {
	// Increment records one hit for key at now and returns the hit count
	// of the current window and when that window resets. A window opens
	// on the first hit and is replaced once its reset time has passed.
	Increment(ctx context.Context, key string, window time.Duration, now time.Time) (count int, reset time.Time, err error)
}

// Result describes the outcome of a single Allow call
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RetryAfter returns how long the caller should wait before retrying
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed || !r.Reset.After(now) {
		return 0
	}
	return r.Reset.Sub(now)
}

// Limiter allows at most limit hits per key in each window
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	name   string
}

// New creates a limiter. name namespaces keys so several limiters can
// share one store.
func New(store Store, limit int, window time.Duration, name string) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		name:   name,
	}
}

// Name returns the limiter's key namespace
func (l *Limiter) Name() string { return l.name }

// Limit returns the number of hits allowed per window
func (l *Limiter) Limit() int { return l.limit }

// Window returns the window length
func (l *Limiter) Window() time.Duration { return l.window }

// Allow records a hit for identifier and reports whether it is within the limit
func (l *Limiter) Allow(ctx context.Context, identifier string, now time.Time) (Result, error) {
	count, reset, err := l.store.Increment(ctx, l.name+":"+identifier, l.window, now)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit %s: %w", l.name, err)
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		Reset:     reset,
	}, nil
}
