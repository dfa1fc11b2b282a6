package candidates

import "errors"

var (
	// ErrNotFound is returned when no candidate exists for the given id.
	ErrNotFound = errors.New("candidate not found")
	// ErrInvalidInput is wrapped by validation failures on create and update.
	ErrInvalidInput = errors.New("invalid input")
)
