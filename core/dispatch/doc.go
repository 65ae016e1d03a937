// Package dispatch provides a fan-out/fan-in message grid that connects a
// dynamically growing set of producer handles to a set of consumer handles
// without any lock on the data path.
//
// Every (producer, consumer) pair communicates over its own bounded
// single-producer/single-consumer ring, so pushes and pops never contend on
// shared state. Producers spread values across consumers with a round-robin
// sweep; consumers drain producers round-robin with a sticky fast path that
// keeps reading a busy source for up to 32 consecutive values before being
// forced back into a full scan.
//
// # Architecture
//
// The Dispatcher owns a grid of ring cells, one per (producer slot,
// consumer slot) pair. Registration and unregistration mutate the grid
// under a single structural mutex; push and pop only perform atomic loads
// of already-published cells and are never blocked by registration.
//
// Producer slots are reusable: unregistering a producer marks its slot
// reclaimed and a later RegisterProducer call revives the same slot with
// its full historical wiring intact. Consumer slots are never reclaimed,
// which lets consumer handles keep raw cell references without revalidating
// liveness on every pop.
//
// # Usage
//
//	d := dispatch.New[string](64)
//	defer d.Close()
//
//	producer, err := d.RegisterProducer()
//	if err != nil {
//		// capacity exhausted
//	}
//
//	consumer, err := d.RegisterConsumer()
//	if err != nil {
//		// capacity exhausted
//	}
//
//	// producer goroutine
//	if ok, err := producer.Push("job"); err != nil {
//		// contract violation: handle already unregistered
//	} else if !ok {
//		// every consumer ring is momentarily full, value not delivered
//	}
//
//	// consumer goroutine
//	if v, ok := consumer.PopWait(100 * time.Millisecond); ok {
//		process(v)
//	}
//
// # Ownership Rules
//
// A producer handle may be used by one goroutine at a time, and likewise
// for consumer handles; the Dispatcher itself is safe for concurrent use.
// Handles must not be used concurrently with or after Close.
//
// # Resource Growth
//
// A newly registered consumer is wired to every producer slot ever
// allocated, including currently reclaimed ones, so the grid grows with the
// high-water mark of producer slots times the consumer count. This keeps
// reused producer slots fully wired at reuse time and is a deliberate
// trade of memory for a lock-free data path.
package dispatch
