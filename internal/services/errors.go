package services

import "errors"

// Service-level errors surfaced to the HTTP boundary as 4xx responses.
// Everything else that goes wrong during orchestration (storage outages,
// judge failures) is absorbed internally and never reaches the caller.
var (
	// ErrAlreadyCompleted is returned when submitting to a finished battle.
	ErrAlreadyCompleted = errors.New("battle already completed")

	// ErrNotCompleted is returned when requesting results for a battle
	// that has not been evaluated yet.
	ErrNotCompleted = errors.New("battle not yet completed")

	// ErrSolutionTooShort is returned for manual submissions under the
	// minimum length. Auto-submissions bypass the check.
	ErrSolutionTooShort = errors.New("solution is too short")
)
