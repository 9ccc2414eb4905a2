// Package clocktest provides a manually driven clock for tests of code that
// takes a clock.TimeProvider.
package clocktest

import (
	"sync"
	"time"
)

// Clock is a TimeProvider that only moves when told to
type Clock struct {
	mu  sync.RWMutex
	now time.Time
}

// New creates a clock reading start
func New(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current reading
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set jumps to t, which may be in the past
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the reading forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Run advances the clock in steps of interval until total has elapsed,
// calling tick after each step. The last step is shortened to land exactly
// on total.
func (c *Clock) Run(total, interval time.Duration, tick func()) {
	for elapsed := time.Duration(0); elapsed < total; {
		step := interval
		if rest := total - elapsed; step > rest {
			step = rest
		}
		c.Advance(step)
		elapsed += step
		tick()
	}
}
