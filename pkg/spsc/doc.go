// Package spsc provides a bounded lock-free ring buffer for exactly one
// producer goroutine and one consumer goroutine.
//
// The ring uses per-slot sequence numbers so that both TryPush and TryPop
// complete with a single atomic load and a single atomic store on the hot
// path, with no compare-and-swap. Head and tail live on separate cache
// lines to avoid false sharing between the two sides.
//
// # Usage
//
//	ring := spsc.New[int](64)
//
//	// producer goroutine
//	for !ring.TryPush(42) {
//		runtime.Gosched() // full, retry or drop
//	}
//
//	// consumer goroutine
//	if v, ok := ring.TryPop(); ok {
//		process(v)
//	}
//
// # Constraints
//
// At most one goroutine may call TryPush concurrently, and at most one
// goroutine may call TryPop concurrently. The producer and consumer may be
// different goroutines, and either side may be handed off between
// goroutines as long as the handoff itself is synchronized. Successful
// pushes are observed by the consumer in push order.
package spsc
