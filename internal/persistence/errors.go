package persistence

import "errors"

var (
	// ErrNotFound is returned by a Backend when no value is stored under the key.
	ErrNotFound = errors.New("persistence: not found")
	// ErrClosed is returned by a Backend that has been closed.
	ErrClosed = errors.New("persistence: backend closed")
)
