package dispatch

import "log/slog"

const (
	// DefaultChannelCapacity is the per-pair ring capacity used when New is
	// called with a non-positive capacity.
	DefaultChannelCapacity = 64

	// DefaultMaxProducers is the default upper bound on producer slots.
	DefaultMaxProducers = 1024

	// DefaultMaxConsumers is the default upper bound on consumer slots.
	DefaultMaxConsumers = 256
)

// Option is a functional option for configuring a Dispatcher.
type Option func(*options)

type options struct {
	maxProducers int
	maxConsumers int
	logger       *slog.Logger
}

// WithMaxProducers sets the upper bound on producer slots. The bound is
// fixed at construction time; registration beyond it fails with
// ErrProducersExhausted. Non-positive values are ignored.
func WithMaxProducers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxProducers = n
		}
	}
}

// WithMaxConsumers sets the upper bound on consumer slots. The bound is
// fixed at construction time; registration beyond it fails with
// ErrConsumersExhausted. Non-positive values are ignored.
func WithMaxConsumers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConsumers = n
		}
	}
}

// WithLogger configures structured logging of control-plane events
// (registration, reuse, unregistration, close). The data path never logs.
// Nil loggers are ignored; the default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
