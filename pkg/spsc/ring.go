package spsc

import "sync/atomic"

const cacheLine = 64

// slot couples a payload with its sequence stamp. The sequence number
// controls slot ownership: seq == pos means the slot is free for the
// producer, seq == pos+1 means it holds data for the consumer.
type slot[T any] struct {
	seq atomic.Uint64
	val T
}

// Ring is a fixed-capacity circular buffer dedicated to one producer and
// one consumer. Head is written only by the consumer and tail only by the
// producer, so neither needs atomic access; visibility of the payload is
// carried by the per-slot sequence numbers.
type Ring[T any] struct {
	_    [cacheLine]byte
	head uint64 // consumer cursor
	_    [cacheLine - 8]byte
	tail uint64 // producer cursor
	_    [cacheLine - 8]byte
	mask uint64
	buf  []slot[T]
}

// New allocates a ring holding at least capacity elements. The effective
// capacity is rounded up to the next power of two (minimum 2) so that index
// arithmetic reduces to bit masking. New panics if capacity < 1.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		panic("spsc: capacity must be at least 1")
	}
	size := 2
	for size < capacity {
		size <<= 1
	}
	r := &Ring[T]{
		mask: uint64(size - 1),
		buf:  make([]slot[T], size),
	}
	for i := range r.buf {
		r.buf[i].seq.Store(uint64(i))
	}
	return r
}

// Cap returns the effective capacity of the ring.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// TryPush enqueues v, returning false if the ring is full. The value is not
// consumed on failure. Must be called by at most one goroutine at a time.
func (r *Ring[T]) TryPush(v T) bool {
	t := r.tail
	s := &r.buf[t&r.mask]
	if s.seq.Load() != t {
		return false // consumer has not yet reclaimed the slot
	}
	s.val = v
	s.seq.Store(t + 1)
	r.tail = t + 1
	return true
}

// TryPop dequeues the oldest value, returning false if the ring is empty.
// Must be called by at most one goroutine at a time.
func (r *Ring[T]) TryPop() (T, bool) {
	var zero T
	h := r.head
	s := &r.buf[h&r.mask]
	if s.seq.Load() != h+1 {
		return zero, false // producer has not yet published to the slot
	}
	v := s.val
	s.val = zero // drop the reference so the value can be collected
	s.seq.Store(h + uint64(len(r.buf)))
	r.head = h + 1
	return v, true
}
