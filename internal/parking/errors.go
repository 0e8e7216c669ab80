package parking

import "errors"

var (
	// ErrInvalidCapacity is returned by New for a capacity below one.
	ErrInvalidCapacity = errors.New("capacity must be at least 1")

	// ErrFull is the capacity refusal returned by Enter when no slot is free.
	ErrFull = errors.New("facility is full")

	// ErrEmpty is returned by Exit when no vehicle is parked.
	ErrEmpty = errors.New("facility is empty")

	// ErrInvalidFee is returned by Exit for a negative, NaN or infinite visitor fee.
	ErrInvalidFee = errors.New("invalid fee")

	// ErrOutOfSync is returned when a step of an entry or exit sequence is
	// blocked, leaving the remaining steps unexecuted.
	ErrOutOfSync = errors.New("automaton out of sync with facility counters")
)
