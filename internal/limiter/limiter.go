// Package limiter paces outgoing requests and provides the clock
// abstraction used to test time-dependent code.
package limiter

import (
	"context"
	"sync"
	"time"
)

// Timer provides time for request pacing and run timestamps.
type Timer interface {
	Now() time.Time
	Sleep(ctx context.Context, duration time.Duration) error
}

// Clock is a Timer backed by real time.
type Clock struct{}

// NewClock returns a real-time Clock.
func NewClock() Clock {
	return Clock{}
}

// Now returns the current time.
func (Clock) Now() time.Time {
	return time.Now()
}

// Sleep waits for duration or until the context is canceled.
func (Clock) Sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Limiter enforces a minimum interval between requests. A nil Limiter
// never blocks.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	clock    Timer
}

// New creates a limiter; a non-positive interval yields nil (no pacing).
func New(interval time.Duration, clock Timer) *Limiter {
	if interval <= 0 {
		return nil
	}

	if clock == nil {
		clock = Clock{}
	}

	return &Limiter{
		interval: interval,
		clock:    clock,
	}
}

// Wait blocks until the next allowed request time or context cancellation.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	now := l.clock.Now()
	wait := l.next.Sub(now)
	if wait <= 0 {
		l.next = now.Add(l.interval)
		l.mu.Unlock()

		return nil
	}

	l.next = l.next.Add(l.interval)
	l.mu.Unlock()

	return l.clock.Sleep(ctx, wait)
}
