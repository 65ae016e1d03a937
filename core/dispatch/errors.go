package dispatch

import "errors"

var (
	// ErrProducersExhausted is returned by RegisterProducer when every
	// producer slot is allocated and none is reclaimed. This is an expected,
	// checkable outcome, not a bug.
	ErrProducersExhausted = errors.New("dispatch: producer slots exhausted")

	// ErrConsumersExhausted is returned by RegisterConsumer when every
	// consumer slot is allocated. Consumer slots are never reclaimed, so
	// this condition is permanent for a given dispatcher.
	ErrConsumersExhausted = errors.New("dispatch: consumer slots exhausted")

	// ErrProducerUnregistered is returned by Push and PushTo when the
	// handle has been unregistered. This indicates a bug in the caller.
	ErrProducerUnregistered = errors.New("dispatch: push on unregistered producer")

	// ErrInvalidHandle is returned by UnregisterProducer when the handle
	// does not belong to this dispatcher or is not the currently installed
	// object at its claimed slot. This indicates a bug in the caller.
	ErrInvalidHandle = errors.New("dispatch: invalid producer handle")

	// ErrAlreadyUnregistered is returned by UnregisterProducer when the
	// handle was already unregistered. This indicates a bug in the caller.
	ErrAlreadyUnregistered = errors.New("dispatch: producer already unregistered")

	// ErrDispatcherClosed is returned by registration calls and Close after
	// the dispatcher has been closed.
	ErrDispatcherClosed = errors.New("dispatch: dispatcher closed")
)
