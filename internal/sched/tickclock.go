// internal/sched/tickclock.go

package sched

import (
	"sync/atomic"
	"time"
)

// Clock is the scheduler's time source, in ticks.
type Clock interface {
	Now() int64
}

// TickClock counts ticks atomically. It is either advanced by hand, which
// is what the simulated kernel does, or paced by Start, which also emits
// every tick on Ch.
type TickClock struct {
	Ch    chan struct{}
	count atomic.Int64
	stop  chan struct{}
}

// NewTickClock creates a stopped clock at tick 0.
func NewTickClock(buffer int) *TickClock {
	return &TickClock{
		Ch:   make(chan struct{}, buffer),
		stop: make(chan struct{}),
	}
}

// Start begins emitting ticks at the given interval.
func (c *TickClock) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case c.Ch <- struct{}{}:
				case <-c.stop:
					close(c.Ch)
					return
				}
			case <-c.stop:
				close(c.Ch)
				return
			}
		}
	}()
}

// Stop signals a started clock to stop emitting ticks.
func (c *TickClock) Stop() {
	close(c.stop)
}

// Advance moves the clock forward by n ticks and returns the new count.
func (c *TickClock) Advance(n int64) int64 {
	return c.count.Add(n)
}

// Now returns the current tick count.
func (c *TickClock) Now() int64 {
	return c.count.Load()
}
