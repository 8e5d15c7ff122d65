// Package testutil provides fixtures shared by relq's package tests.
package testutil

import (
	"sync"
	"time"
)

// Epoch is the first instant a Clock returns by default.
var Epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Clock is a deterministic wall clock for tests that record runs.
//
// Every call to Now returns the previous instant plus the step, so runs
// recorded in sequence get strictly increasing, reproducible timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Clock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	calls int64
}

// NewClock creates a clock starting at Epoch and advancing one second per
// call.
func NewClock() *Clock {
	return NewClockAt(Epoch, time.Second)
}

// NewClockAt creates a clock whose first Now returns start.
func NewClockAt(start time.Time, step time.Duration) *Clock {
	return &Clock{start: start, step: step}
}

// Now returns the next instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Calls returns how many times Now has been called.
func (c *Clock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset rewinds the clock so the next Now returns start again.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
