// Package inmemory provides an in-process document store driver used for
// tests and local runs without a remote backend.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/stackpile/graphzep/pkg/store"
)

// Driver implements store.Driver with plain maps. Semantic search is a
// naive term-overlap score, which is enough to exercise the normalization
// and filtering layers above it.
type Driver struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Document
}

// NewDriver creates a new in-memory document store driver.
func NewDriver() *Driver {
	return &Driver{
		collections: make(map[string]map[string]store.Document),
	}
}

// GetCollection fetches collection metadata by name.
func (d *Driver) GetCollection(_ context.Context, name string) (*store.Collection, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.collections[name]; !ok {
		return nil, fmt.Errorf("collection %q: %w", name, store.ErrCollectionNotFound)
	}
	return &store.Collection{Name: name}, nil
}

// CreateCollection creates a named collection. Creating an existing
// collection errors, mirroring remote backends that reject duplicates.
func (d *Driver) CreateCollection(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.collections[name]; ok {
		return fmt.Errorf("collection %q already exists", name)
	}
	d.collections[name] = make(map[string]store.Document)
	return nil
}

// DeleteCollection removes a named collection and its documents.
func (d *Driver) DeleteCollection(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.collections[name]; !ok {
		return fmt.Errorf("collection %q: %w", name, store.ErrCollectionNotFound)
	}
	delete(d.collections, name)
	return nil
}

// AddDocuments stores documents in a collection.
func (d *Driver) AddDocuments(_ context.Context, collection string, docs []store.Document) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	col, ok := d.collections[collection]
	if !ok {
		return fmt.Errorf("collection %q: %w", collection, store.ErrCollectionNotFound)
	}
	for _, doc := range docs {
		col[doc.ID] = doc
	}
	return nil
}

// GetDocument retrieves one document by id.
func (d *Driver) GetDocument(_ context.Context, collection, id string) (*store.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	col, ok := d.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", collection, store.ErrCollectionNotFound)
	}
	doc, ok := col[id]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, store.ErrNotFound)
	}
	return &doc, nil
}

// DeleteDocuments removes documents by id. Missing ids are ignored.
func (d *Driver) DeleteDocuments(_ context.Context, collection string, ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	col, ok := d.collections[collection]
	if !ok {
		return fmt.Errorf("collection %q: %w", collection, store.ErrCollectionNotFound)
	}
	for _, id := range ids {
		delete(col, id)
	}
	return nil
}

// Semantic scores documents by query term overlap, applies the where filter,
// and returns the topK hits shaped like backend search results.
func (d *Driver) Semantic(_ context.Context, collection string, payload store.SearchPayload) (any, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	col, ok := d.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", collection, store.ErrCollectionNotFound)
	}

	where := payload.Where
	if where == nil {
		where = payload.Filter
	}

	type scored struct {
		doc   store.Document
		score float64
	}

	var matches []scored
	for _, doc := range col {
		if where != nil && !store.MatchesWhere(doc.Metadata, where) {
			continue
		}
		matches = append(matches, scored{doc: doc, score: overlap(payload.Query, doc.Content)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].doc.ID < matches[j].doc.ID
	})

	topK := payload.TopK
	if topK <= 0 || topK > len(matches) {
		topK = len(matches)
	}

	hits := make([]any, 0, topK)
	for _, m := range matches[:topK] {
		hit := map[string]any{
			"id":      m.doc.ID,
			"content": m.doc.Content,
			"score":   m.score,
		}
		if payload.IncludeMetadata {
			hit["metadata"] = m.doc.Metadata
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	return nil
}

// overlap counts how many query terms appear in the content, normalized by
// query length. An empty query scores everything equally at zero.
func overlap(query, content string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	lower := strings.ToLower(content)
	found := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			found++
		}
	}
	return float64(found) / float64(len(terms))
}
