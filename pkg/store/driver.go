// Package store provides interfaces and implementations for the document
// collection backend the graph emulation is built on.
package store

import "context"

// Document represents a stored item within a named collection.
type Document struct {
	// ID is a unique identifier for the document.
	ID string `json:"id"`

	// Content is the document body text.
	Content string `json:"content"`

	// Metadata carries arbitrary key/value pairs attached to the document.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Collection describes a named document collection.
type Collection struct {
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SearchPayload is the portable request shape for a semantic search.
// The filter is duplicated under Where and Filter because backend versions
// disagree on the key name; drivers read whichever they understand.
type SearchPayload struct {
	Query           string         `json:"query"`
	TopK            int            `json:"topK"`
	IncludeMetadata bool           `json:"includeMetadata"`
	Where           map[string]any `json:"where,omitempty"`
	Filter          map[string]any `json:"filter,omitempty"`
}

// Driver handles collection CRUD, document CRUD, and semantic search against
// a document store backend.
//
// Semantic deliberately returns an untyped result: hit shapes drift between
// backend versions, so the normalization layer flattens whatever comes back
// instead of this interface committing to a schema.
type Driver interface {
	// GetCollection fetches metadata for a named collection.
	// Returns ErrCollectionNotFound if it does not exist.
	GetCollection(ctx context.Context, name string) (*Collection, error)

	// CreateCollection creates a named collection. Creating a collection
	// that already exists may error; callers treat that as benign.
	CreateCollection(ctx context.Context, name string) error

	// DeleteCollection removes a named collection and its documents.
	DeleteCollection(ctx context.Context, name string) error

	// AddDocuments stores documents in a collection.
	AddDocuments(ctx context.Context, collection string, docs []Document) error

	// GetDocument retrieves one document by id.
	// Returns ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, collection, id string) (*Document, error)

	// DeleteDocuments removes documents by id.
	DeleteDocuments(ctx context.Context, collection string, ids []string) error

	// Semantic runs a semantic search over a collection.
	Semantic(ctx context.Context, collection string, payload SearchPayload) (any, error)

	// Close releases any resources held by the driver.
	Close() error
}
