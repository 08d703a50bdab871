package engine

import "errors"

var (
	// ErrProfileNotFound means the referenced user profile does not exist.
	ErrProfileNotFound = errors.New("user profile not found")

	// ErrChallengeNotFound means the referenced challenge definition does not exist.
	ErrChallengeNotFound = errors.New("challenge definition not found")

	// ErrChallengeAlreadyActive is returned when selecting a challenge while
	// one is already in flight.
	ErrChallengeAlreadyActive = errors.New("a challenge is already active")

	// ErrChallengeInactive is returned when selecting a retired catalog entry.
	ErrChallengeInactive = errors.New("challenge definition is not active")

	// ErrNoActiveDefinitions aborts the assignment batch when the catalog has
	// no active entries to hand out.
	ErrNoActiveDefinitions = errors.New("no active challenge definitions")

	// ErrUnknownCriteria marks a criteria type the matcher does not recognize.
	// Matching fails closed; callers log this as a configuration warning.
	ErrUnknownCriteria = errors.New("unknown criteria type")
)
