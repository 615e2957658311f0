package record

import (
	"errors"
)

var (
	// ErrNotFound is reported when a lookup by id or email misses.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidRecord is reported when a record fails the shape check.
	// The in-memory and persisted state are untouched.
	ErrInvalidRecord = errors.New("invalid record")
)
