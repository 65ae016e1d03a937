package dispatch

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/dispatchgrid/pkg/spsc"
)

// Dispatcher owns the grid of producer and consumer slots and serializes
// all structural mutation behind a single mutex. Push and pop never take
// that mutex: they only perform atomic loads of cell references published
// during registration.
type Dispatcher[T any] struct {
	channelCapacity int
	logger          *slog.Logger

	// Slot arrays are fixed-length, sized to the configured maxima, so cell
	// and slot publication is a plain atomic store into a stable backing
	// array. Counts are monotonically non-decreasing while the dispatcher
	// lives.
	producers     []atomic.Pointer[Producer[T]]
	consumers     []atomic.Pointer[Consumer[T]]
	producerCount atomic.Int64
	consumerCount atomic.Int64

	mu        sync.Mutex
	reclaimed []int // producer indices available for reuse, LIFO
	closed    bool
}

// Stats is a point-in-time snapshot of the dispatcher's slot accounting.
type Stats struct {
	Producers          int // allocated producer slots (live or reclaimed)
	ActiveProducers    int // producer slots currently claimed by a handle
	ReclaimedProducers int // producer slots awaiting reuse
	Consumers          int // allocated consumer slots
}

// New creates a Dispatcher whose pairwise rings hold channelCapacity
// elements each (rounded up to a power of two by the ring; non-positive
// values fall back to DefaultChannelCapacity).
//
// Example:
//
//	d := dispatch.New[task](128,
//		dispatch.WithMaxProducers(512),
//		dispatch.WithLogger(logger),
//	)
//	defer d.Close()
func New[T any](channelCapacity int, opts ...Option) *Dispatcher[T] {
	if channelCapacity <= 0 {
		channelCapacity = DefaultChannelCapacity
	}

	options := &options{
		maxProducers: DefaultMaxProducers,
		maxConsumers: DefaultMaxConsumers,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Dispatcher[T]{
		channelCapacity: channelCapacity,
		logger:          options.logger,
		producers:       make([]atomic.Pointer[Producer[T]], options.maxProducers),
		consumers:       make([]atomic.Pointer[Consumer[T]], options.maxConsumers),
	}
}

// RegisterProducer claims a producer slot and returns its handle.
//
// Reclaimed slots are reused first, most recently reclaimed on top; a
// reused slot keeps its complete historical wiring, so no rings are
// created. Otherwise a fresh slot is allocated and wired to every
// registered consumer. Returns ErrProducersExhausted when all slots are
// allocated and live, and ErrDispatcherClosed after Close.
func (d *Dispatcher[T]) RegisterProducer() (*Producer[T], error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDispatcherClosed
	}

	if n := len(d.reclaimed); n > 0 {
		index := d.reclaimed[n-1]
		d.reclaimed = d.reclaimed[:n-1]
		producer := d.producers[index].Load()
		producer.registered = true
		d.logger.Debug("producer slot reused", slog.Int("index", index))
		return producer, nil
	}

	count := int(d.producerCount.Load())
	if count >= len(d.producers) {
		return nil, ErrProducersExhausted
	}

	producer := &Producer[T]{
		dispatcher: d,
		index:      count,
		registered: true,
		cursor:     -1,
		cells:      make([]atomic.Pointer[spsc.Ring[T]], len(d.consumers)),
	}
	for j := 0; j < int(d.consumerCount.Load()); j++ {
		consumer := d.consumers[j].Load()
		ring := spsc.New[T](d.channelCapacity)
		consumer.cells[count].Store(ring)
		producer.cells[j].Store(ring)
	}
	d.producers[count].Store(producer)
	d.producerCount.Store(int64(count + 1))

	d.logger.Debug("producer registered",
		slog.Int("index", count),
		slog.Int("wired_consumers", int(d.consumerCount.Load())))
	return producer, nil
}

// RegisterConsumer claims the next consumer slot and returns its handle.
//
// The new slot is wired to every producer slot ever allocated, live or
// reclaimed, so producer slots revived later are already fully connected.
// Consumer slots are never reclaimed. Returns ErrConsumersExhausted at
// capacity and ErrDispatcherClosed after Close.
func (d *Dispatcher[T]) RegisterConsumer() (*Consumer[T], error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDispatcherClosed
	}

	count := int(d.consumerCount.Load())
	if count >= len(d.consumers) {
		return nil, ErrConsumersExhausted
	}

	consumer := &Consumer[T]{
		dispatcher: d,
		index:      count,
		cursor:     -1,
		cells:      make([]atomic.Pointer[spsc.Ring[T]], len(d.producers)),
	}
	for i := 0; i < int(d.producerCount.Load()); i++ {
		producer := d.producers[i].Load()
		ring := spsc.New[T](d.channelCapacity)
		consumer.cells[i].Store(ring)
		producer.cells[count].Store(ring)
	}
	d.consumers[count].Store(consumer)
	d.consumerCount.Store(int64(count + 1))

	d.logger.Debug("consumer registered",
		slog.Int("index", count),
		slog.Int("wired_producers", int(d.producerCount.Load())))
	return consumer, nil
}

// UnregisterProducer releases the handle's slot for reuse. The slot keeps
// its ring wiring; only the liveness flag flips.
//
// Returns ErrInvalidHandle if the handle does not belong to this dispatcher
// or is not the installed object at its claimed index, and
// ErrAlreadyUnregistered on a double unregister. Both indicate caller bugs.
func (d *Dispatcher[T]) UnregisterProducer(producer *Producer[T]) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if producer == nil || producer.dispatcher != d ||
		producer.index >= len(d.producers) ||
		d.producers[producer.index].Load() != producer {
		return ErrInvalidHandle
	}
	if !producer.registered {
		return ErrAlreadyUnregistered
	}

	producer.registered = false
	d.reclaimed = append(d.reclaimed, producer.index)
	d.logger.Debug("producer unregistered", slog.Int("index", producer.index))
	return nil
}

// Close tears the grid down: every cell and slot reference owned by the
// dispatcher is dropped so the rings can be collected. No handle may be
// used concurrently with or after Close; the dispatcher provides no
// reference-counting safety net for outstanding handles. A second Close
// returns ErrDispatcherClosed.
func (d *Dispatcher[T]) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	d.closed = true

	for i := 0; i < int(d.producerCount.Load()); i++ {
		producer := d.producers[i].Load()
		for j := range producer.cells {
			producer.cells[j].Store(nil)
		}
		d.producers[i].Store(nil)
	}
	for j := 0; j < int(d.consumerCount.Load()); j++ {
		consumer := d.consumers[j].Load()
		for i := range consumer.cells {
			consumer.cells[i].Store(nil)
		}
		d.consumers[j].Store(nil)
	}
	d.producerCount.Store(0)
	d.consumerCount.Store(0)
	d.reclaimed = nil

	d.logger.Debug("dispatcher closed")
	return nil
}

// Stats returns a snapshot of slot accounting for monitoring and debugging.
func (d *Dispatcher[T]) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	allocated := int(d.producerCount.Load())
	reclaimed := len(d.reclaimed)
	return Stats{
		Producers:          allocated,
		ActiveProducers:    allocated - reclaimed,
		ReclaimedProducers: reclaimed,
		Consumers:          int(d.consumerCount.Load()),
	}
}
