package rrsched

import "errors"

var (
	// ErrInvalidConfig is returned before a run starts when the quantum or a
	// descriptor cannot be simulated.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvariantViolation means the scheduler produced an impossible state.
	// It is a bug, never an input problem.
	ErrInvariantViolation = errors.New("invariant violation")
)
