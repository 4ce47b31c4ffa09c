package service

import (
	"context"

	"milamart/internal/catalog"
	"milamart/internal/model"
)

// CatalogLoader provides the cached product catalogue.
type CatalogLoader interface {
	// Load returns the catalogue, populating it on first use.
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// ProductService defines read operations over the product catalogue.
type ProductService interface {
	// List returns the catalogue size and up to limit products in catalogue order.
	List(ctx context.Context, limit int) (*model.ProductListResponse, error)

	// Search filters by keyword and category and returns slim results.
	Search(ctx context.Context, query, category string, maxResults int) (*model.SearchResponse, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.ProductDetail, error)

	// Categories returns the sorted, unique category names.
	Categories(ctx context.Context) ([]string, error)

	// Overview returns the product count and categories.
	Overview(ctx context.Context) (*model.CatalogOverview, error)
}

// ChatService answers shopping chat messages.
type ChatService interface {
	// Reply matches the message against the catalogue.
	Reply(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error)
}
