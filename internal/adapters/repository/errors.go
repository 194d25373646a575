package repository

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrStaleWrite means the write lock was not acquired within its
	// bounded wait; the caller may retry.
	ErrStaleWrite = errors.New("write lock timeout")

	// ErrNotFound means no live row exists for the requested key.
	ErrNotFound = errors.New("submission not found")

	// ErrMissingCollaborator means a required external table was never
	// loaded into the store.
	ErrMissingCollaborator = errors.New("required table missing")

	// ErrAmbiguousState means a key holds more than one live row, so a
	// targeted edit has no single authoritative target. Duplicate
	// resolution must run first.
	ErrAmbiguousState = errors.New("ambiguous state for key")
)
