package tracker

import "errors"

var (
	// ErrValidation indicates a required field is missing or a value is out of range.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the application id doesn't exist.
	ErrNotFound = errors.New("application not found")
	// ErrInvalidField indicates an update targeted an unknown field or used the wrong value kind.
	ErrInvalidField = errors.New("invalid field")
)
