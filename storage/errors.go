package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when no cached copy exists for a resource.
	ErrNotFound = errors.New("cached resource not found")

	// ErrClosed is returned when the cache is used after Close.
	ErrClosed = errors.New("cache is closed")
)
