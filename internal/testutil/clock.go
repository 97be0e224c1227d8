// Package testutil provides stub implementations of the small runtime
// interfaces (clock, timers, ID generation) for deterministic tests.
package testutil

import (
	"fmt"
	"sync"
	"time"

	"sealpost/internal/sealpost"
)

// StubClock is a manual clock: Now returns a settable time, and timers
// created via AfterFunc fire synchronously inside Advance once their
// deadline is reached. Safe for concurrent use.
type StubClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*stubTimer
}

// NewStubClock creates a StubClock set to the given time.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to 2024-01-15 10:30:00 UTC.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers fn to run when the clock is advanced past d from now.
func (c *StubClock) AfterFunc(d time.Duration, fn func()) sealpost.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &stubTimer{clock: c, fireAt: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d and fires every due timer, in
// registration order, on the caller's goroutine. A fired timer's Stop
// returns false afterwards.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)

	var due []*stubTimer
	for _, t := range c.timers {
		if !t.fired && !t.stopped && !t.fireAt.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// stubTimer is a manual one-shot timer owned by a StubClock. Its state is
// guarded by the clock's mutex.
type stubTimer struct {
	clock   *StubClock
	fireAt  time.Time
	fn      func()
	fired   bool
	stopped bool
}

// Stop revokes the timer. It returns false if the timer already fired or
// was already stopped, matching time.Timer semantics.
func (t *stubTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// StubIDGenerator returns sequential IDs: "id-1", "id-2", etc.
type StubIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}
