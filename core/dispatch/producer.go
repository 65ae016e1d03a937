package dispatch

import (
	"sync/atomic"

	"github.com/dmitrymomot/dispatchgrid/pkg/spsc"
)

// Producer is the producer-side handle for one slot of the grid. A handle
// may be used by one goroutine at a time; the round-robin cursor is
// deliberately unsynchronized.
type Producer[T any] struct {
	dispatcher *Dispatcher[T]
	index      int
	registered bool
	cursor     int
	cells      []atomic.Pointer[spsc.Ring[T]] // indexed by consumer slot
}

// Index returns the producer's slot index. Reused slots keep their index.
func (p *Producer[T]) Index() int {
	return p.index
}

// Push delivers v to exactly one consumer, selected round-robin starting
// one past the last successfully used consumer slot. The sweep visits each
// wired cell at most once, wrapping at the end of the wired range.
//
// Returns false when every wired ring is momentarily full (the caller
// still owns v) and true once v is accepted by some ring. The only error
// is ErrProducerUnregistered, a contract violation.
func (p *Producer[T]) Push(v T) (bool, error) {
	if !p.registered {
		return false, ErrProducerUnregistered
	}

	last := p.cursor
	for p.cursor++; p.cursor < len(p.cells); p.cursor++ {
		ring := p.cells[p.cursor].Load()
		if ring == nil {
			break // end of the wired range
		}
		if ring.TryPush(v) {
			return true, nil
		}
	}
	for p.cursor = 0; p.cursor <= last; p.cursor++ {
		ring := p.cells[p.cursor].Load()
		if ring == nil {
			break
		}
		if ring.TryPush(v) {
			return true, nil
		}
	}
	return false, nil
}

// PushTo bypasses round-robin and attempts delivery only to the consumer
// slot at index. Returns false if the index is outside the wired range or
// that ring is full. The only error is ErrProducerUnregistered.
func (p *Producer[T]) PushTo(index int, v T) (bool, error) {
	if !p.registered {
		return false, ErrProducerUnregistered
	}
	if index < 0 || index >= len(p.cells) {
		return false, nil
	}
	if ring := p.cells[index].Load(); ring != nil && ring.TryPush(v) {
		return true, nil
	}
	return false, nil
}

// Unregister releases the handle's slot back to the dispatcher's reuse
// pool. The handle must not be used afterwards.
func (p *Producer[T]) Unregister() error {
	return p.dispatcher.UnregisterProducer(p)
}
