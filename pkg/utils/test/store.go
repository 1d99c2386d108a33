package testutils

import (
	"context"
	"fmt"
	"slices"

	"github.com/stackpile/graphzep/pkg/store"
)

// MockStore is a test store driver that records calls and returns
// configurable results.
type MockStore struct {
	// Collections is the set of collections that exist.
	Collections map[string]bool

	// Documents holds documents per collection, keyed by id.
	Documents map[string]map[string]store.Document

	// SemanticResult is returned by Semantic for any query.
	SemanticResult any

	// SemanticCalls accumulates the payloads passed to Semantic.
	SemanticCalls []store.SearchPayload

	// CreateCalls accumulates the names passed to CreateCollection.
	CreateCalls []string

	// DeletedIDs accumulates ids passed to DeleteDocuments per collection.
	DeletedIDs map[string][]string

	// FailGetCollection causes GetCollection to return an error.
	FailGetCollection bool

	// FailCreateCollection causes CreateCollection to return an error.
	FailCreateCollection bool

	// FailDeleteCollection causes DeleteCollection to return an error.
	FailDeleteCollection bool

	// FailSemantic causes Semantic to return an error.
	FailSemantic bool

	// FailDeleteDocuments causes DeleteDocuments to return an error.
	FailDeleteDocuments bool
}

// NewMockStore creates a new mock store driver with no collections.
func NewMockStore() *MockStore {
	return &MockStore{
		Collections: make(map[string]bool),
		Documents:   make(map[string]map[string]store.Document),
		DeletedIDs:  make(map[string][]string),
	}
}

func (m *MockStore) GetCollection(_ context.Context, name string) (*store.Collection, error) {
	if m.FailGetCollection || !m.Collections[name] {
		return nil, fmt.Errorf("collection %q: %w", name, store.ErrCollectionNotFound)
	}
	return &store.Collection{Name: name}, nil
}

func (m *MockStore) CreateCollection(_ context.Context, name string) error {
	m.CreateCalls = append(m.CreateCalls, name)
	if m.FailCreateCollection {
		return fmt.Errorf("mock create failure for: %s", name)
	}
	m.Collections[name] = true
	return nil
}

func (m *MockStore) DeleteCollection(_ context.Context, name string) error {
	if m.FailDeleteCollection {
		return fmt.Errorf("mock delete failure for: %s", name)
	}
	delete(m.Collections, name)
	delete(m.Documents, name)
	return nil
}

func (m *MockStore) AddDocuments(_ context.Context, collection string, docs []store.Document) error {
	col, ok := m.Documents[collection]
	if !ok {
		col = make(map[string]store.Document)
		m.Documents[collection] = col
	}
	for _, doc := range docs {
		col[doc.ID] = doc
	}
	return nil
}

func (m *MockStore) GetDocument(_ context.Context, collection, id string) (*store.Document, error) {
	doc, ok := m.Documents[collection][id]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, store.ErrNotFound)
	}
	return &doc, nil
}

func (m *MockStore) DeleteDocuments(_ context.Context, collection string, ids []string) error {
	if m.FailDeleteDocuments {
		return fmt.Errorf("mock delete documents failure")
	}
	m.DeletedIDs[collection] = append(m.DeletedIDs[collection], ids...)
	for _, id := range ids {
		delete(m.Documents[collection], id)
	}
	return nil
}

func (m *MockStore) Semantic(_ context.Context, collection string, payload store.SearchPayload) (any, error) {
	m.SemanticCalls = append(m.SemanticCalls, payload)
	if m.FailSemantic {
		return nil, fmt.Errorf("mock semantic failure for: %s", collection)
	}
	return m.SemanticResult, nil
}

func (m *MockStore) Close() error {
	return nil
}

// Created reports whether CreateCollection was called for name.
func (m *MockStore) Created(name string) bool {
	return slices.Contains(m.CreateCalls, name)
}
