package service

import (
	"context"
	"fmt"

	"milamart/internal/catalog"
	"milamart/internal/model"
	"milamart/internal/search"

	"github.com/rs/zerolog"
)

const (
	// DefaultListLimit is the page size of List when the caller does not choose one.
	DefaultListLimit = 100

	// DefaultSearchResults is the number of search results returned by default.
	DefaultSearchResults = 5

	// MaxSearchResults caps the number of search results.
	MaxSearchResults = 10
)

// productService implements ProductService.
type productService struct {
	catalog       CatalogLoader
	publicBaseURL string
	logger        zerolog.Logger
}

// NewProductService creates a new product service.
// publicBaseURL is the site root used to build product links.
func NewProductService(loader CatalogLoader, publicBaseURL string, logger zerolog.Logger) ProductService {
	return &productService{
		catalog:       loader,
		publicBaseURL: publicBaseURL,
		logger:        logger.With().Str("service", "product").Logger(),
	}
}

// List returns the first limit products. A zero limit yields no products.
func (s *productService) List(ctx context.Context, limit int) (*model.ProductListResponse, error) {
	if limit < 0 {
		s.logger.Warn().Int("limit", limit).Msg("negative product limit")
		return nil, fmt.Errorf("%w: limit must not be negative", model.ErrInvalidParameter)
	}

	cat, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	products := cat.Products()
	if limit < len(products) {
		products = products[:limit]
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Msg("retrieved products")

	return &model.ProductListResponse{
		Total:    cat.Len(),
		Products: products,
	}, nil
}

// Search filters products by keyword and category.
// maxResults defaults to DefaultSearchResults when not positive and is capped at MaxSearchResults.
func (s *productService) Search(ctx context.Context, query, category string, maxResults int) (*model.SearchResponse, error) {
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}
	if maxResults > MaxSearchResults {
		maxResults = MaxSearchResults
	}

	cat, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	results := search.Filter(cat.Products(), search.Query{
		Keyword:    query,
		Category:   category,
		MaxResults: maxResults,
	})

	summaries := make([]model.ProductSummary, len(results))
	for i, p := range results {
		summaries[i] = p.Summarise(s.publicBaseURL)
	}

	s.logger.Debug().
		Str("query", query).
		Str("category", category).
		Int("max_results", maxResults).
		Int("found", len(summaries)).
		Msg("searched products")

	return &model.SearchResponse{
		Query:    query,
		Category: category,
		Total:    len(summaries),
		Products: summaries,
	}, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.ProductDetail, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	cat, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	product, ok := cat.ByID(id)
	if !ok {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return &model.ProductDetail{
		Product: product,
		URL:     model.ProductURL(s.publicBaseURL, product.ID),
	}, nil
}

// Categories returns the sorted, unique category names.
func (s *productService) Categories(ctx context.Context) ([]string, error) {
	cat, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Categories(), nil
}

// Overview returns the product count and categories.
func (s *productService) Overview(ctx context.Context) (*model.CatalogOverview, error) {
	cat, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	return &model.CatalogOverview{
		Count:      cat.Len(),
		Categories: cat.Categories(),
	}, nil
}

func (s *productService) load(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := s.catalog.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load catalog")
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}
