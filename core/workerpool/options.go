package workerpool

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring a Pool.
type Option func(*poolOptions)

type poolOptions struct {
	workers         int
	queueSize       int
	maxProducers    int
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// WithWorkers sets the number of worker goroutines. Default is 4.
// Non-positive values are ignored.
func WithWorkers(n int) Option {
	return func(o *poolOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithQueueSize sets the per-(submitter, worker) ring capacity. Default is
// 64. Non-positive values are ignored.
func WithQueueSize(n int) Option {
	return func(o *poolOptions) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithMaxProducers bounds how many submitter handles (the pool's own plus
// Producer() callers) can exist over the pool's lifetime. Default is 1024.
// Non-positive values are ignored.
func WithMaxProducers(n int) Option {
	return func(o *poolOptions) {
		if n > 0 {
			o.maxProducers = n
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for workers to finish.
// Default is 30s. Non-positive values are ignored.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *poolOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithPoolLogger configures structured logging for pool lifecycle events
// and task failures. Nil loggers are ignored; the default logger discards
// everything.
func WithPoolLogger(logger *slog.Logger) Option {
	return func(o *poolOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
