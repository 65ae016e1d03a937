package workerpool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/dispatchgrid/core/dispatch"
)

// workerPollTimeout bounds each blocking pop so workers notice context
// cancellation promptly without busy-spinning on an idle grid.
const workerPollTimeout = 50 * time.Millisecond

// Handler processes a single task. A returned error is counted and logged;
// it does not stop the worker.
type Handler[T any] func(ctx context.Context, task T) error

// Pool distributes tasks across a fixed set of worker goroutines through a
// dispatch grid. Instances must be created with New or NewFromConfig.
type Pool[T any] struct {
	handler         Handler[T]
	dispatcher      *dispatch.Dispatcher[T]
	workers         int
	shutdownTimeout time.Duration
	logger          *slog.Logger
	poolID          uuid.UUID

	mu       sync.Mutex
	producer *dispatch.Producer[T]
	cancel   context.CancelFunc
	ctx      context.Context
	stopped  bool
	wg       sync.WaitGroup

	// Observability metrics
	submitted   atomic.Int64
	processed   atomic.Int64
	failed      atomic.Int64
	rejected    atomic.Int64
	activeTasks atomic.Int32
}

// Stats provides observability metrics for monitoring and debugging.
type Stats struct {
	Submitted   int64 // Tasks accepted by Submit
	Processed   int64 // Tasks completed without error
	Failed      int64 // Tasks whose handler returned an error
	Rejected    int64 // Submit calls refused because the grid was saturated
	ActiveTasks int32 // Tasks currently being processed
	IsRunning   bool  // Whether the pool is currently running
}

// New creates a worker pool that feeds tasks to handler.
func New[T any](handler Handler[T], opts ...Option) (*Pool[T], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	options := &poolOptions{
		workers:         4,
		queueSize:       64,
		maxProducers:    1024,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}
	for _, opt := range opts {
		opt(options)
	}

	dispatcher := dispatch.New[T](options.queueSize,
		dispatch.WithMaxProducers(options.maxProducers),
		dispatch.WithMaxConsumers(options.workers),
		dispatch.WithLogger(options.logger),
	)

	return &Pool[T]{
		handler:         handler,
		dispatcher:      dispatcher,
		workers:         options.workers,
		shutdownTimeout: options.shutdownTimeout,
		logger:          options.logger,
		poolID:          uuid.New(),
	}, nil
}

// Start registers the pool's submitter handle and one consumer handle per
// worker, then launches the workers. It returns immediately; workers run
// until Stop or until ctx is cancelled.
func (p *Pool[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}
	if p.cancel != nil {
		return ErrAlreadyStarted
	}

	producer, err := p.dispatcher.RegisterProducer()
	if err != nil {
		return fmt.Errorf("workerpool: register submitter: %w", err)
	}

	consumers := make([]*dispatch.Consumer[T], p.workers)
	for i := range consumers {
		if consumers[i], err = p.dispatcher.RegisterConsumer(); err != nil {
			return fmt.Errorf("workerpool: register worker %d: %w", i, err)
		}
	}

	p.producer = producer
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i, c := range consumers {
		p.wg.Add(1)
		go p.work(i, c)
	}

	p.logger.Info("worker pool started",
		slog.String("pool_id", p.poolID.String()),
		slog.Int("workers", p.workers))
	return nil
}

// work is the per-worker loop: drain the grid, process, and exit once the
// context is cancelled and the grid scan comes up empty.
func (p *Pool[T]) work(id int, c *dispatch.Consumer[T]) {
	defer p.wg.Done()

	for {
		task, ok := c.PopWait(workerPollTimeout)
		if ok {
			p.activeTasks.Add(1)
			if err := p.handler(p.ctx, task); err != nil {
				p.failed.Add(1)
				p.logger.Error("task handler failed",
					slog.String("pool_id", p.poolID.String()),
					slog.Int("worker", id),
					slog.String("error", err.Error()))
			} else {
				p.processed.Add(1)
			}
			p.activeTasks.Add(-1)
			continue
		}

		select {
		case <-p.ctx.Done():
			return
		default:
		}
	}
}

// Submit offers a task to the pool. Returns false when every worker's ring
// is full (the task was not accepted), ErrNotStarted before Start, and
// ErrStopped after Stop.
//
// Submit serializes callers behind a mutex; see Producer for a lock-free
// per-goroutine alternative.
func (p *Pool[T]) Submit(task T) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return false, ErrStopped
	}
	if p.producer == nil {
		return false, ErrNotStarted
	}

	ok, err := p.producer.Push(task)
	if err != nil {
		return false, err
	}
	if !ok {
		p.rejected.Add(1)
		return false, nil
	}
	p.submitted.Add(1)
	return true, nil
}

// Producer registers and returns a dedicated submitter handle for
// high-throughput callers. The handle is single-goroutine; the caller
// should Unregister it when done so the slot can be reused.
func (p *Pool[T]) Producer() (*dispatch.Producer[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil, ErrStopped
	}
	return p.dispatcher.RegisterProducer()
}

// Dispatcher exposes the underlying grid, e.g. for Stats or for wiring
// additional consumers before Start.
func (p *Pool[T]) Dispatcher() *dispatch.Dispatcher[T] {
	return p.dispatcher
}

// Stop cancels the workers and waits up to the shutdown timeout for them
// to drain and exit, then tears down the grid. Tasks still queued when the
// timeout expires are abandoned.
func (p *Pool[T]) Stop() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrStopped
	}
	if p.cancel == nil {
		p.mu.Unlock()
		return ErrNotStarted
	}
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.logger.Info("worker pool stopping",
		slog.String("pool_id", p.poolID.String()),
		slog.Duration("timeout", p.shutdownTimeout))

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.mu.Lock()
		defer p.mu.Unlock()
		if err := p.producer.Unregister(); err != nil {
			return fmt.Errorf("workerpool: release submitter: %w", err)
		}
		if err := p.dispatcher.Close(); err != nil {
			return fmt.Errorf("workerpool: close dispatcher: %w", err)
		}
		p.logger.Info("worker pool stopped",
			slog.String("pool_id", p.poolID.String()))
		return nil
	case <-time.After(p.shutdownTimeout):
		p.logger.Warn("worker pool shutdown timeout exceeded - queued tasks may be abandoned",
			slog.String("pool_id", p.poolID.String()),
			slog.Duration("timeout", p.shutdownTimeout))
		return fmt.Errorf("workerpool: shutdown timeout exceeded after %s", p.shutdownTimeout)
	}
}

// Stats returns a snapshot of the pool's metrics.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	running := p.cancel != nil && !p.stopped
	p.mu.Unlock()

	return Stats{
		Submitted:   p.submitted.Load(),
		Processed:   p.processed.Load(),
		Failed:      p.failed.Load(),
		Rejected:    p.rejected.Load(),
		ActiveTasks: p.activeTasks.Load(),
		IsRunning:   running,
	}
}
