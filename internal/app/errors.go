package app

import (
	"errors"

	"github.com/khrees2412/placement/internal/persist"
	"github.com/khrees2412/placement/internal/tracker"
)

// Sentinel errors for common application errors
var (
	ErrAmbiguousID = errors.New("ambiguous application id")
)

// Label names the kind of failure for display.
func Label(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tracker.ErrValidation):
		return "validation error"
	case errors.Is(err, tracker.ErrNotFound):
		return "not found"
	case errors.Is(err, tracker.ErrInvalidField):
		return "invalid field"
	case errors.Is(err, ErrAmbiguousID):
		return "ambiguous id"
	case errors.Is(err, persist.ErrDeserialization):
		return "deserialization error"
	case errors.Is(err, persist.ErrPersistenceUnavailable):
		return "persistence unavailable"
	default:
		return "error"
	}
}
