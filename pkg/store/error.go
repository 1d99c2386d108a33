package store

import "errors"

var (
	// ErrNotFound is returned when a document is not found in the store.
	ErrNotFound = errors.New("document not found")

	// ErrCollectionNotFound is returned when a named collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrConnection is returned when the store connection fails.
	ErrConnection = errors.New("store connection failed")
)
