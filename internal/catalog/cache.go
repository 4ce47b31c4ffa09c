package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"milamart/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const loadKey = "catalog"

// CacheConfig holds configuration for the catalogue cache.
type CacheConfig struct {
	// Timeout bounds each fetch attempt. Default: 10s
	Timeout time.Duration

	// RetryAttempts is the total number of fetch attempts per load. Default: 1 (no retry)
	RetryAttempts int

	// RetryInterval is the initial backoff between attempts. Default: 200ms
	RetryInterval time.Duration

	// Archiver, when set, receives a copy of every successfully fetched raw catalogue.
	Archiver Archiver
}

// DefaultCacheConfig returns the default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Timeout:       10 * time.Second,
		RetryAttempts: 1,
		RetryInterval: 200 * time.Millisecond,
	}
}

// Cache lazily loads the catalogue on first demand and keeps it for the life of the process.
//
// Concurrent first callers share a single in-flight load. A failed load is not
// cached, so the next caller triggers a new one. Once populated, reads take no locks.
type Cache struct {
	source     Source
	normalizer *Normalizer
	cfg        CacheConfig
	logger     zerolog.Logger

	group   singleflight.Group
	catalog atomic.Pointer[Catalog]
}

// NewCache creates a cache that loads from source and shapes records with normalizer.
func NewCache(source Source, normalizer *Normalizer, cfg CacheConfig, logger zerolog.Logger) *Cache {
	defaults := DefaultCacheConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = defaults.RetryAttempts
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaults.RetryInterval
	}

	return &Cache{
		source:     source,
		normalizer: normalizer,
		cfg:        cfg,
		logger:     logger.With().Str("component", "catalog-cache").Logger(),
	}
}

// Load returns the cached catalogue, loading it first if necessary.
//
// If ctx is done before the shared load finishes, Load returns ctx.Err() while the
// load keeps running for the other callers.
func (c *Cache) Load(ctx context.Context) (*Catalog, error) {
	if cat := c.catalog.Load(); cat != nil {
		return cat, nil
	}

	ch := c.group.DoChan(loadKey, func() (interface{}, error) {
		// A load may have completed between the fast path and joining the group.
		if cat := c.catalog.Load(); cat != nil {
			return cat, nil
		}

		cat, err := c.populate(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.catalog.Store(cat)
		return cat, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Catalog), nil
	}
}

// Loaded reports whether the catalogue has been populated.
func (c *Cache) Loaded() bool {
	return c.catalog.Load() != nil
}

func (c *Cache) populate(ctx context.Context) (*Catalog, error) {
	start := time.Now()

	raw, err := c.fetch(ctx)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("source", c.source.Name()).
			Msg("failed to load catalog")
		return nil, err
	}

	products, stats := c.normalizer.Normalize(raw.Products)

	c.logger.Info().
		Str("source", c.source.Name()).
		Int("records", stats.Input).
		Int("products", len(products)).
		Int("excluded", stats.Excluded).
		Int("duplicates", stats.Duplicates).
		Int("missing_id", stats.MissingID).
		Int("brands_assigned", stats.BrandsAssigned).
		Dur("duration", time.Since(start)).
		Msg("catalog loaded")

	c.archive(ctx, raw)

	return New(products), nil
}

// fetch reads the source, retrying with exponential backoff up to RetryAttempts times.
// Malformed payloads are not retried.
func (c *Cache) fetch(ctx context.Context) (*model.RawCatalog, error) {
	var raw *model.RawCatalog
	attempt := 0

	operation := func() error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		result, err := c.source.Fetch(attemptCtx)
		if err != nil {
			err = classify(err)
			if errors.Is(err, model.ErrUpstreamMalformed) {
				return backoff.Permanent(err)
			}
			return err
		}

		raw = result
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.RetryInterval
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", c.cfg.RetryAttempts).
			Dur("retry_in", wait).
			Msg("catalog fetch failed, retrying")
	}

	err := backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.cfg.RetryAttempts-1)), ctx),
		notify,
	)
	if err != nil {
		return nil, err
	}

	return raw, nil
}

func (c *Cache) archive(ctx context.Context, raw *model.RawCatalog) {
	if c.cfg.Archiver == nil {
		return
	}

	archiveCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if err := c.cfg.Archiver.Archive(archiveCtx, raw); err != nil {
		c.logger.Warn().
			Err(err).
			Str("archive", c.cfg.Archiver.Name()).
			Msg("failed to archive catalog snapshot")
		return
	}

	c.logger.Debug().
		Str("archive", c.cfg.Archiver.Name()).
		Int("records", len(raw.Products)).
		Msg("catalog snapshot archived")
}

// classify maps source errors onto the catalogue error taxonomy.
func classify(err error) error {
	var de *model.DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", model.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", model.ErrCatalogUnavailable, err)
}
