package dispatch

import (
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/dispatchgrid/pkg/spsc"
)

const (
	// maxStickyReads caps how many consecutive values Pop may take from the
	// same producer before a full round-robin scan is forced, so a single
	// busy producer cannot starve the others indefinitely.
	maxStickyReads = 32

	// popWaitInterval is the sleep between unsuccessful scans in PopWait.
	popWaitInterval = time.Millisecond
)

// Consumer is the consumer-side handle for one slot of the grid. A handle
// may be used by one goroutine at a time. Consumer slots are never
// reclaimed, so the handle stays valid for the dispatcher's lifetime.
type Consumer[T any] struct {
	dispatcher  *Dispatcher[T]
	index       int
	cursor      int
	stickyReads int
	cells       []atomic.Pointer[spsc.Ring[T]] // indexed by producer slot
}

// Index returns the consumer's slot index, usable as a PushTo target.
func (c *Consumer[T]) Index() int {
	return c.index
}

// Pop returns the next available value, or false if every wired ring is
// momentarily empty.
//
// While the previous producer keeps delivering, Pop re-reads the same ring
// for up to maxStickyReads consecutive successes before resuming the
// round-robin sweep. The sweep mirrors the producer side: one past the
// last-used slot to the end of the wired range, then wrap to the start.
func (c *Consumer[T]) Pop() (T, bool) {
	// sticky read for cache locality
	if c.stickyReads > 0 && c.stickyReads < maxStickyReads {
		if v, ok := c.cells[c.cursor].Load().TryPop(); ok {
			c.stickyReads++
			return v, true
		}
	}
	c.stickyReads = 0

	last := c.cursor
	for c.cursor++; c.cursor < len(c.cells); c.cursor++ {
		ring := c.cells[c.cursor].Load()
		if ring == nil {
			break // end of the wired range
		}
		if v, ok := ring.TryPop(); ok {
			c.stickyReads = 1
			return v, true
		}
	}
	for c.cursor = 0; c.cursor <= last; c.cursor++ {
		ring := c.cells[c.cursor].Load()
		if ring == nil {
			break
		}
		if v, ok := ring.TryPop(); ok {
			c.stickyReads = 1
			return v, true
		}
	}
	var zero T
	return zero, false
}

// PopWait blocks until a value is available or timeout elapses, polling
// Pop once per millisecond. A zero timeout performs exactly one scan; a
// negative timeout waits indefinitely.
//
// This is a coarse sleep-poll, not an event-driven wake: worst-case wake
// latency is one interval, and an idle consumer costs one scan per
// interval. Callers needing tighter latency should spin on Pop directly.
func (c *Consumer[T]) PopWait(timeout time.Duration) (T, bool) {
	var waited time.Duration
	for {
		if v, ok := c.Pop(); ok {
			return v, true
		}
		if timeout >= 0 && waited >= timeout {
			var zero T
			return zero, false
		}
		time.Sleep(popWaitInterval)
		waited += popWaitInterval
	}
}
