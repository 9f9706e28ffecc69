package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an entity with the same identifier already exists
	ErrConflict = errors.New("conflict: identifier already in use")

	// ErrCorrupt is returned when a persisted document cannot be decoded
	ErrCorrupt = errors.New("corrupt persisted state")
)
