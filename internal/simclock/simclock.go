// Package simclock provides the station's simulation clock. The clock
// advances a simulated "now" by a fixed step per wall-clock tick, so orbital
// propagation can run faster than real time during demos while every
// subsystem still reads time through one source.
package simclock

import (
	"context"
	"sync"
	"time"
)

// defaultTick is the wall-clock advance resolution.
const defaultTick = 100 * time.Millisecond

// Clock is a warped time source. A warp factor of 1 tracks wall time; larger
// factors compress it. Zero-value warp is normalized to 1.
type Clock struct {
	mu      sync.RWMutex
	current time.Time

	tick time.Duration
	step time.Duration
}

// New constructs a clock starting at start with the given warp factor.
func New(start time.Time, warp float64) *Clock {
	if warp < 1 {
		warp = 1
	}
	return &Clock{
		current: start,
		tick:    defaultTick,
		step:    time.Duration(float64(defaultTick) * warp),
	}
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Run advances the clock until ctx is cancelled and returns a channel closed
// when the loop exits. Advancing is tick-driven rather than computed lazily
// so Now is monotonic across readers even while the warp outpaces wall time.
func (c *Clock) Run(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		ticker := time.NewTicker(c.tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				c.current = c.current.Add(c.step)
				c.mu.Unlock()
			}
		}
	}()
	return done
}
