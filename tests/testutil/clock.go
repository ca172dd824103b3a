package testutil

import (
	"context"
	"sync"
	"time"
)

// FakeClock is a manual clock. Sleep advances time instantly and
// records the requested duration.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// NewFakeClock returns a clock set to start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
	return nil
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleeps returns every duration passed to Sleep, in order.
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// FakeLink is a scripted connectivity link. It reports Up, and counts
// how often it was probed and asked to connect. When UpAfter is
// positive the link comes up on that probe.
type FakeLink struct {
	mu       sync.Mutex
	Up       bool
	UpAfter  int
	probes   int
	connects int
}

func (l *FakeLink) Connected(context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.probes++
	if l.UpAfter > 0 && l.probes >= l.UpAfter {
		l.Up = true
	}
	return l.Up
}

func (l *FakeLink) Connect(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connects++
	return nil
}

// SetUp changes the link state.
func (l *FakeLink) SetUp(up bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Up = up
}

// Probes returns how many times Connected was called.
func (l *FakeLink) Probes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.probes
}

// Connects returns how many times Connect was called.
func (l *FakeLink) Connects() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connects
}
