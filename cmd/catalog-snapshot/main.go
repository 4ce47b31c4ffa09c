// Command catalog-snapshot fetches the upstream catalogue once and copies it into
// one or more snapshot stores, so the API can serve from them when the upstream is down.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"milamart/internal/catalog"
	"milamart/internal/config"
	"milamart/internal/database"
	"milamart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		targets string
		out     string
	)

	flag.StringVar(&targets, "to", config.SourceFile, "comma-separated snapshot stores to write (file, s3, postgres)")
	flag.StringVar(&out, "out", "", "snapshot file path (defaults to CATALOG_SNAPSHOT_FILE)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, targets, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, targets, out string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	if out != "" {
		cfg.Catalog.SnapshotFile = out
	}

	kinds, err := parseTargets(targets)
	if err != nil {
		return err
	}

	var pool *pgxpool.Pool
	for _, kind := range kinds {
		if kind != config.SourcePostgres {
			continue
		}
		pool, err = database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to create database schema: %w", err)
		}
	}

	opener := catalog.NewOpener(cfg, pool, logger)

	stores := make([]catalog.Store, 0, len(kinds))
	for _, kind := range kinds {
		store, err := opener.OpenStore(ctx, kind)
		if err != nil {
			return err
		}
		stores = append(stores, store)
	}

	source := catalog.NewHTTPSource(cfg.Catalog.URL, cfg.Catalog.Timeout, logger)

	logger.Info().
		Str("url", cfg.Catalog.URL).
		Strs("targets", kinds).
		Msg("fetching upstream catalog")

	raw, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	// Report what the API would serve from this snapshot
	normalizer := catalog.NewNormalizer(catalog.NormalizerConfig{
		ExcludedCategories: cfg.Catalog.ExcludedCategories,
		HomeDecorBrands:    cfg.Catalog.HomeDecorBrands,
	})
	products, stats := normalizer.Normalize(raw.Products)

	logger.Info().
		Int("raw_products", stats.Input).
		Int("products", len(products)).
		Int("excluded", stats.Excluded).
		Int("duplicates", stats.Duplicates).
		Msg("catalog fetched")

	return archiveAll(ctx, stores, raw, logger)
}

// archiveAll writes raw to every store concurrently and returns the first failure.
func archiveAll(ctx context.Context, stores []catalog.Store, raw *model.RawCatalog, logger zerolog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, store := range stores {
		g.Go(func() error {
			if err := store.Archive(ctx, raw); err != nil {
				return fmt.Errorf("failed to write %s snapshot: %w", store.Name(), err)
			}
			logger.Info().
				Str("store", store.Name()).
				Int("products", len(raw.Products)).
				Msg("snapshot written")
			return nil
		})
	}

	return g.Wait()
}

// parseTargets splits and validates the -to flag.
func parseTargets(targets string) ([]string, error) {
	seen := make(map[string]bool)
	var kinds []string

	for _, kind := range strings.Split(targets, ",") {
		kind = strings.TrimSpace(kind)
		if kind == "" || seen[kind] {
			continue
		}

		switch kind {
		case config.SourceFile, config.SourceS3, config.SourcePostgres:
		default:
			return nil, fmt.Errorf("invalid snapshot store: %s (must be file, s3, or postgres)", kind)
		}

		seen[kind] = true
		kinds = append(kinds, kind)
	}

	if len(kinds) == 0 {
		return nil, fmt.Errorf("at least one snapshot store is required")
	}

	return kinds, nil
}
