package models

import "errors"

var (
	// ErrUnknownKind is returned for a model selector outside the closed set.
	ErrUnknownKind = errors.New("unknown graph model")

	// ErrTooFewNodes is returned when the node count is below 1.
	ErrTooFewNodes = errors.New("node count must be at least 1")

	// ErrDegreeParity is returned by RandomRegular when degree·nodes is odd.
	ErrDegreeParity = errors.New("degree times node count must be even")

	// ErrDegreeTooLarge is returned by RandomRegular when degree ≥ nodes.
	ErrDegreeTooLarge = errors.New("degree must be smaller than node count")

	// ErrRetriesExhausted is returned when a randomized construction could not
	// find a valid realization within its attempt budget.
	ErrRetriesExhausted = errors.New("construction attempts exhausted")
)
