// Package workerpool runs a fixed set of worker goroutines fed through a
// dispatch grid, one bounded ring per (submitter, worker) pair, so task
// hand-off never contends on a shared queue.
//
// Tasks submitted through the pool are spread across workers round-robin
// by the dispatcher. Submit is non-blocking: a false result means every
// worker's ring is full and the caller decides whether to retry, shed the
// task, or apply backpressure upstream.
//
// # Usage
//
//	pool, err := workerpool.New(func(ctx context.Context, job Job) error {
//		return process(ctx, job)
//	},
//		workerpool.WithWorkers(8),
//		workerpool.WithQueueSize(128),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := pool.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Stop()
//
//	if ok, err := pool.Submit(job); err != nil {
//		// pool not started or already stopped
//	} else if !ok {
//		// saturated, task not accepted
//	}
//
// # Configuration
//
// The pool can be configured from the environment using Config and the
// core/config loader:
//
//	var cfg workerpool.Config
//	config.MustLoad(&cfg)
//	pool, err := workerpool.NewFromConfig(cfg, handler)
//
// # Shutdown
//
// Stop cancels the workers' context and waits up to the shutdown timeout.
// Workers finish their current task and keep draining already-queued tasks
// until their scan comes up empty; tasks still queued when the timeout
// expires are abandoned.
//
// # High-Throughput Submission
//
// Submit serializes callers behind a mutex, which is fine for control-rate
// submission. Goroutines producing at high rate should hold their own
// handle from Producer() and push directly; handles are single-goroutine
// but lock-free on the data path.
package workerpool
