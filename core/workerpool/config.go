package workerpool

import "time"

// Config holds pool configuration for environment-based setup, designed
// for the core/config loader.
type Config struct {
	Workers         int           `env:"WORKERPOOL_WORKERS" envDefault:"4"`
	QueueSize       int           `env:"WORKERPOOL_QUEUE_SIZE" envDefault:"64"`
	MaxProducers    int           `env:"WORKERPOOL_MAX_PRODUCERS" envDefault:"1024"`
	ShutdownTimeout time.Duration `env:"WORKERPOOL_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig() Config {
	return Config{
		Workers:         4,
		QueueSize:       64,
		MaxProducers:    1024,
		ShutdownTimeout: 30 * time.Second,
	}
}

// NewFromConfig creates a Pool from configuration. Additional options
// override config values.
func NewFromConfig[T any](cfg Config, handler Handler[T], opts ...Option) (*Pool[T], error) {
	allOpts := append([]Option{
		WithWorkers(cfg.Workers),
		WithQueueSize(cfg.QueueSize),
		WithMaxProducers(cfg.MaxProducers),
		WithShutdownTimeout(cfg.ShutdownTimeout),
	}, opts...)

	return New(handler, allOpts...)
}
