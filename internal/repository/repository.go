package repository

import (
	"context"

	"milamart/internal/model"
)

// RawProductRepository stores the raw upstream catalogue in PostgreSQL so it can
// serve as a catalogue source after a restart.
type RawProductRepository interface {
	// Fetch reads the archived catalogue in upstream order.
	// An empty archive is reported as ErrCatalogUnavailable.
	Fetch(ctx context.Context) (*model.RawCatalog, error)

	// Archive atomically replaces the archived catalogue with raw.
	Archive(ctx context.Context, raw *model.RawCatalog) error

	// Count returns the number of archived records.
	Count(ctx context.Context) (int, error)

	// Name identifies the repository in logs.
	Name() string
}
