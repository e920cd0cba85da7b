package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the first instant returned by a DeterministicClock
// created with a zero start.
var DefaultEpoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// DeterministicClock provides a thread-safe monotonic wall clock for tests.
//
// Each call to Now advances the clock by a fixed step, so repeated runs of the
// same scenario produce identical record timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	n     int64
}

// NewDeterministicClock creates a clock whose first Now() returns start.
// A zero start uses DefaultEpoch; a non-positive step uses one second.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	if start.IsZero() {
		start = DefaultEpoch
	}
	if step <= 0 {
		step = time.Second
	}
	return &DeterministicClock{start: start.UTC(), step: step}
}

// Now returns the current instant and advances the clock by one step.
//
// Matches the func() time.Time signature accepted by consult.WithClock.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Calls returns how many times Now has been called.
func (c *DeterministicClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Reset rewinds the clock so the next Now() returns start again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
