package persist

import "errors"

var (
	// ErrDeserialization indicates stored data is structurally invalid or holds
	// a malformed date/time.
	ErrDeserialization = errors.New("malformed tracker data")
	// ErrPersistenceUnavailable indicates the file or sheet could not be read
	// or written.
	ErrPersistenceUnavailable = errors.New("persistence target unavailable")
)
