package catalog

import (
	"context"
	"fmt"

	"milamart/internal/config"
	"milamart/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Opener builds sources and snapshot stores by configured kind.
type Opener struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOpener creates an Opener. pool may be nil when no Postgres kind is configured.
func NewOpener(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) *Opener {
	return &Opener{
		cfg:    cfg,
		pool:   pool,
		logger: logger,
	}
}

// Source returns the configured primary source, wrapped with the fallback when one is set.
func (o *Opener) Source(ctx context.Context) (Source, error) {
	primary, err := o.OpenSource(ctx, o.cfg.Catalog.Source)
	if err != nil {
		return nil, err
	}

	if o.cfg.Catalog.Fallback == "" {
		return primary, nil
	}

	secondary, err := o.OpenSource(ctx, o.cfg.Catalog.Fallback)
	if err != nil {
		// A broken fallback should not stop the primary from serving.
		o.logger.Warn().
			Err(err).
			Str("fallback", o.cfg.Catalog.Fallback).
			Msg("failed to open fallback catalog source, continuing without it")
		return primary, nil
	}

	return NewFallbackSource(primary, secondary, o.cfg.Catalog.Timeout, o.logger), nil
}

// Archiver returns the configured archive store, or nil when archiving is disabled.
func (o *Opener) Archiver(ctx context.Context) (Archiver, error) {
	if o.cfg.Catalog.Archive == "" {
		return nil, nil
	}
	return o.OpenStore(ctx, o.cfg.Catalog.Archive)
}

// OpenSource builds a source of the given kind.
func (o *Opener) OpenSource(ctx context.Context, kind string) (Source, error) {
	if kind == config.SourceHTTP {
		return NewHTTPSource(o.cfg.Catalog.URL, o.cfg.Catalog.Timeout, o.logger), nil
	}
	return o.OpenStore(ctx, kind)
}

// OpenStore builds a snapshot store of the given kind.
func (o *Opener) OpenStore(ctx context.Context, kind string) (Store, error) {
	switch kind {
	case config.SourceFile:
		return NewFileStore(o.cfg.Catalog.SnapshotFile, o.logger), nil

	case config.SourceS3:
		store, err := NewS3Store(ctx, o.cfg.S3.Bucket, o.cfg.S3.Region, o.cfg.S3.Key, o.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open S3 catalog store: %w", err)
		}
		return store, nil

	case config.SourcePostgres:
		if o.pool == nil {
			return nil, fmt.Errorf("postgres catalog store requires a database connection")
		}
		return repository.NewRawProductRepository(o.pool, o.logger), nil

	default:
		return nil, fmt.Errorf("unsupported catalog store: %s", kind)
	}
}
