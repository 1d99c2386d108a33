package graph

import (
	"context"
	"log/slog"

	"github.com/stackpile/graphzep/pkg/store"
)

// Gateway runs best-effort semantic searches. A search failure of any kind
// degrades to an empty result set: callers cannot distinguish "no matches"
// from "backend unavailable", and must treat empty as no evidence rather
// than no data.
type Gateway struct {
	store       store.Driver
	provisioner *Provisioner
	logger      *slog.Logger
}

// NewGateway creates a new semantic search gateway.
func NewGateway(s store.Driver, provisioner *Provisioner, logger *slog.Logger) *Gateway {
	return &Gateway{
		store:       s,
		provisioner: provisioner,
		logger:      logger,
	}
}

// Search ensures the collection exists, runs the backend search, and
// normalizes the result. The where clause, when present, is duplicated
// under both filter key names backends have used for it.
func (g *Gateway) Search(ctx context.Context, collection, query string, topK int, where map[string]any) []Hit {
	g.provisioner.Ensure(ctx, collection)

	payload := store.SearchPayload{
		Query:           query,
		TopK:            topK,
		IncludeMetadata: true,
	}
	if len(where) > 0 {
		payload.Where = where
		payload.Filter = where
	}

	raw, err := g.store.Semantic(ctx, collection, payload)
	if err != nil {
		g.logger.Debug("search failed, returning empty", "collection", collection, "error", err)
		return []Hit{}
	}

	return Normalize(raw)
}
