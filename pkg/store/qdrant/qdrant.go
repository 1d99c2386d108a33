// Package qdrant provides a document store driver backed by a Qdrant
// instance. Qdrant has no server-side embedding, so the driver pairs the
// vector API with a local embedder to offer the same semantic search
// surface as the Zep driver.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qdrant/go-client/qdrant"

	"github.com/stackpile/graphzep/pkg/embeddings"
	"github.com/stackpile/graphzep/pkg/store"
)

// Driver implements store.Driver on the Qdrant gRPC client.
// Document ids must be UUID strings; Qdrant rejects arbitrary point ids.
type Driver struct {
	client   *qdrant.Client
	embedder embeddings.Embedder
	dims     uint64
	logger   *slog.Logger
}

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Host is the Qdrant host (e.g. "localhost").
	Host string

	// Port is the Qdrant gRPC port. Defaults to 6334.
	Port int

	// APIKey authenticates against a secured instance when non-empty.
	APIKey string

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool

	// Dimensions is the embedding vector size used when creating collections.
	Dimensions uint64
}

// NewDriver creates a new Qdrant document store driver.
func NewDriver(c Config, embedder embeddings.Embedder, logger *slog.Logger) (*Driver, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("embedding dimensions are required")
	}

	port := c.Port
	if port == 0 {
		port = 6334
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   c.Host,
		Port:   port,
		APIKey: c.APIKey,
		UseTLS: c.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w: %w", store.ErrConnection, err)
	}

	logger.Info("connected to qdrant", "host", c.Host, "port", port)

	return &Driver{
		client:   client,
		embedder: embedder,
		dims:     c.Dimensions,
		logger:   logger,
	}, nil
}

// GetCollection fetches collection metadata by name.
func (d *Driver) GetCollection(ctx context.Context, name string) (*store.Collection, error) {
	exists, err := d.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking collection %q: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("collection %q: %w", name, store.ErrCollectionNotFound)
	}
	return &store.Collection{Name: name}, nil
}

// CreateCollection creates a named collection sized for the configured
// embedding dimensions.
func (d *Driver) CreateCollection(ctx context.Context, name string) error {
	err := d.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     d.dims,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", name, err)
	}

	d.logger.Debug("created collection", "name", name)

	return nil
}

// DeleteCollection removes a named collection and its points.
func (d *Driver) DeleteCollection(ctx context.Context, name string) error {
	if err := d.client.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}
	return nil
}

// AddDocuments embeds each document's content and upserts the points.
func (d *Driver) AddDocuments(ctx context.Context, collection string, docs []store.Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, doc := range docs {
		embedding, err := d.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("embedding document %q: %w", doc.ID, err)
		}

		payload := map[string]any{
			"content": doc.Content,
		}
		if doc.Metadata != nil {
			payload["metadata"] = doc.Metadata
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(doc.ID),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	_, err := d.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting documents: %w", err)
	}

	d.logger.Debug("added documents", "collection", collection, "count", len(docs))

	return nil
}

// GetDocument retrieves one document by id.
func (d *Driver) GetDocument(ctx context.Context, collection, id string) (*store.Document, error) {
	points, err := d.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: collection,
		Ids:            []*qdrant.PointId{qdrant.NewID(id)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("getting document %q: %w", id, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("document %q: %w", id, store.ErrNotFound)
	}

	doc := documentFromPayload(id, points[0].Payload)
	return &doc, nil
}

// DeleteDocuments removes points by id.
func (d *Driver) DeleteDocuments(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewID(id)
	}

	_, err := d.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelector(pointIDs...),
	})
	if err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}

	d.logger.Debug("deleted documents", "collection", collection, "count", len(ids))

	return nil
}

// Semantic embeds the query, translates the portable where clause into a
// Qdrant filter, and returns hits shaped like backend search results.
func (d *Driver) Semantic(ctx context.Context, collection string, payload store.SearchPayload) (any, error) {
	embedding, err := d.embedder.Embed(ctx, payload.Query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	where := payload.Where
	if where == nil {
		where = payload.Filter
	}

	topK := payload.TopK
	if topK <= 0 {
		topK = 10
	}
	limit := uint64(topK)

	points, err := d.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          &limit,
		Filter:         whereToFilter(where),
		WithPayload:    qdrant.NewWithPayload(payload.IncludeMetadata),
	})
	if err != nil {
		return nil, fmt.Errorf("querying qdrant: %w", err)
	}

	hits := make([]any, 0, len(points))
	for _, point := range points {
		doc := documentFromPayload(pointIDString(point.Id), point.Payload)
		hit := map[string]any{
			"id":      doc.ID,
			"content": doc.Content,
			"score":   float64(point.Score),
		}
		if payload.IncludeMetadata {
			hit["metadata"] = doc.Metadata
		}
		hits = append(hits, hit)
	}

	d.logger.Debug("queried qdrant", "collection", collection, "results", len(hits))

	return hits, nil
}

// Close releases the gRPC connection.
func (d *Driver) Close() error {
	return d.client.Close()
}

func documentFromPayload(id string, payload map[string]*qdrant.Value) store.Document {
	doc := store.Document{ID: id}

	if v, ok := payload["content"]; ok {
		doc.Content = v.GetStringValue()
	}
	if v, ok := payload["metadata"]; ok {
		if m, ok := valueToAny(v).(map[string]any); ok {
			doc.Metadata = m
		}
	}

	return doc
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return fmt.Sprintf("%d", id.GetNum())
}

// valueToAny converts a Qdrant payload value back into plain Go data.
func valueToAny(v *qdrant.Value) any {
	if v == nil {
		return nil
	}

	switch kind := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		values := kind.ListValue.GetValues()
		out := make([]any, len(values))
		for i, el := range values {
			out[i] = valueToAny(el)
		}
		return out
	case *qdrant.Value_StructValue:
		fields := kind.StructValue.GetFields()
		out := make(map[string]any, len(fields))
		for k, el := range fields {
			out[k] = valueToAny(el)
		}
		return out
	default:
		return nil
	}
}
