package trello

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time so the limiter and the reconnect sequence can be
// driven by tests.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Limiter enforces a minimum interval between dispatched calls. It is
// the single scheduling point every request passes through; the wait is
// a real sleep on the calling goroutine.
type Limiter struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	last     time.Time
}

// NewLimiter returns a Limiter allowing one call per interval.
func NewLimiter(interval time.Duration, clock Clock) *Limiter {
	if clock == nil {
		clock = realClock{}
	}
	return &Limiter{clock: clock, interval: interval}
}

// Wait blocks until interval has elapsed since the previous dispatch
// and then records the current time as the new dispatch time. The
// first call never waits.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() {
		if remaining := l.interval - l.clock.Now().Sub(l.last); remaining > 0 {
			if err := l.clock.Sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	l.last = l.clock.Now()
	return nil
}

// Last returns the time of the most recent dispatch.
func (l *Limiter) Last() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}
