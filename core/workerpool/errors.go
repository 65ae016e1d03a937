package workerpool

import "errors"

var (
	// ErrNilHandler is returned by New when no task handler is provided.
	ErrNilHandler = errors.New("workerpool: nil handler")

	// ErrAlreadyStarted is returned by Start when the pool is running.
	ErrAlreadyStarted = errors.New("workerpool: already started")

	// ErrNotStarted is returned by Submit and Stop before Start.
	ErrNotStarted = errors.New("workerpool: not started")

	// ErrStopped is returned once the pool has been stopped; a pool cannot
	// be restarted.
	ErrStopped = errors.New("workerpool: stopped")
)
