package errors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyKey        = errors.New("empty key")
	ErrInvalidData     = errors.New("invalid data type")
	ErrEntityExists    = errors.New("entity already exists")
	ErrMalformedEntity = errors.New("malformed entity")

	// ErrInvalidArgument reports numeric input that cannot produce a
	// meaningful result: non-positive step, non-finite bounds, or a bounding
	// height inconsistent with the integrand.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrNoWorker = errors.New("no live worker available")
)
