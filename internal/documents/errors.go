package documents

import "errors"

var (
	// ErrNotFound indicates no record exists for the given id.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID indicates a create collided with an existing id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
