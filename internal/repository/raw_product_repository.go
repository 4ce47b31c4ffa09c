package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"milamart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

var rawProductColumns = []string{
	"position", "id", "title", "category", "brand",
	"price", "description", "rating", "stock", "thumbnail",
}

// rawProductRepository implements RawProductRepository using PostgreSQL.
type rawProductRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRawProductRepository creates a new PostgreSQL-backed raw product repository.
func NewRawProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) RawProductRepository {
	return &rawProductRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "raw_product").Logger(),
	}
}

func (r *rawProductRepository) Name() string {
	return "postgres"
}

// Fetch reads the archived catalogue in upstream order.
func (r *rawProductRepository) Fetch(ctx context.Context) (*model.RawCatalog, error) {
	query := `
		SELECT id, title, category, brand, price, description, rating, stock, thumbnail
		FROM raw_products
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query raw products")
		return nil, fmt.Errorf("%w: failed to query raw products: %v", model.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	products := make([]model.RawProduct, 0)
	for rows.Next() {
		var (
			p  model.RawProduct
			id string
		)
		err := rows.Scan(&id, &p.Title, &p.Category, &p.Brand, &p.Price, &p.Description, &p.Rating, &p.Stock, &p.Thumbnail)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan raw product row")
			return nil, fmt.Errorf("%w: failed to scan raw product: %v", model.ErrCatalogUnavailable, err)
		}
		p.ID = json.Number(id)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating raw product rows")
		return nil, fmt.Errorf("%w: error iterating raw products: %v", model.ErrCatalogUnavailable, err)
	}

	if len(products) == 0 {
		r.logger.Warn().Msg("no archived catalog found")
		return nil, fmt.Errorf("%w: no archived catalog", model.ErrCatalogUnavailable)
	}

	r.logger.Info().Int("records", len(products)).Msg("archived catalog loaded")

	return &model.RawCatalog{Products: products}, nil
}

// Archive replaces the archived catalogue within a single transaction.
func (r *rawProductRepository) Archive(ctx context.Context, raw *model.RawCatalog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback is a no-op once the transaction is committed.
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Error().Err(err).Msg("failed to rollback transaction")
		}
	}()

	if _, err := tx.Exec(ctx, "DELETE FROM raw_products"); err != nil {
		r.logger.Error().Err(err).Msg("failed to clear raw products")
		return fmt.Errorf("failed to clear raw products: %w", err)
	}

	rows := make([][]interface{}, len(raw.Products))
	for i, p := range raw.Products {
		rows[i] = []interface{}{
			i, p.ID.String(), p.Title, p.Category, p.Brand,
			p.Price, p.Description, p.Rating, p.Stock, p.Thumbnail,
		}
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"raw_products"}, rawProductColumns, pgx.CopyFromRows(rows))
	if err != nil {
		r.logger.Error().Err(err).Int("records", len(rows)).Msg("failed to copy raw products")
		return fmt.Errorf("failed to copy raw products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info().Int64("records", copied).Msg("catalog archived")

	return nil
}

// Count returns the number of archived records.
func (r *rawProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM raw_products").Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count raw products")
		return 0, fmt.Errorf("failed to count raw products: %w", err)
	}
	return count, nil
}
