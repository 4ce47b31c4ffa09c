package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema holds the tables used to archive the raw upstream catalogue.
// Rows keep their upstream order in position; ids are not unique upstream.
const Schema = `
	CREATE TABLE IF NOT EXISTS raw_products (
		position INTEGER PRIMARY KEY,
		id VARCHAR(50) NOT NULL,
		title TEXT NOT NULL,
		category VARCHAR(100) NOT NULL,
		brand VARCHAR(255) NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL,
		description TEXT NOT NULL,
		rating DOUBLE PRECISION NOT NULL,
		stock INTEGER NOT NULL,
		thumbnail TEXT NOT NULL,
		archived_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_raw_products_category ON raw_products(category);
`

// EnsureSchema creates the catalogue tables when they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
