package graph

import (
	"context"
	"log/slog"

	"github.com/stackpile/graphzep/pkg/store"
)

// Provisioner guarantees best-effort existence of collections before
// operations target them.
type Provisioner struct {
	store  store.Driver
	logger *slog.Logger
}

// NewProvisioner creates a new collection provisioner.
func NewProvisioner(s store.Driver, logger *slog.Logger) *Provisioner {
	return &Provisioner{
		store:  s,
		logger: logger,
	}
}

// Ensure checks that a collection exists and creates it when it doesn't.
// Creation failures are swallowed: a concurrent caller may have created the
// collection first, and a persistently unavailable backend will surface on
// the operation that follows. The postcondition is best-effort existence,
// not verified existence.
func (p *Provisioner) Ensure(ctx context.Context, name string) {
	if _, err := p.store.GetCollection(ctx, name); err == nil {
		return
	}

	if err := p.store.CreateCollection(ctx, name); err != nil {
		p.logger.Debug("collection create failed, proceeding", "name", name, "error", err)
	}
}
