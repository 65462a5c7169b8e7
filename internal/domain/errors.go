package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrMatchNotFound   = errors.New("match not found")

	// ErrMatchResolved: the match already reached a terminal state and takes
	// no further responses. Distinct from ErrMatchExpired, which also retires
	// the match as a side effect of the check that raised it.
	ErrMatchResolved = errors.New("match already resolved")
	ErrMatchExpired  = errors.New("match has expired")

	ErrNotMatchParty = errors.New("not a party to this match")

	ErrRequestAlreadyCancelled = errors.New("request is already cancelled")
	ErrRequestAlreadyMatched   = errors.New("cannot cancel a matched request; contact the donor directly")

	// ErrMatchConflict: a concurrent writer finalized the match between our
	// read and write. Callers retry or surface the fresher state.
	ErrMatchConflict = errors.New("match was modified concurrently")

	ErrDuplicateMatch = errors.New("an active match already exists for this donor and request")

	ErrInvalidDecision  = errors.New("decision must be accepted or rejected")
	ErrInvalidRole      = errors.New("role must be donor or requester")
	ErrInvalidBloodType = errors.New("invalid blood type")

	ErrNotDonor = errors.New("only donors can update availability")

	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)
