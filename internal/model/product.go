package model

import "encoding/json"

// Product represents a normalised item in the storefront catalogue.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

// ProductSummary is the trimmed product shape returned by search, with a link to the product page.
type ProductSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	URL         string  `json:"url"`
}

// SummaryDescriptionLength is the number of characters of description kept in a ProductSummary.
const SummaryDescriptionLength = 100

// Summarise builds the search representation of p. baseURL is the public site root.
func (p Product) Summarise(baseURL string) ProductSummary {
	desc := p.Description
	if r := []rune(desc); len(r) > SummaryDescriptionLength {
		desc = string(r[:SummaryDescriptionLength])
	}

	return ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Price:       p.Price,
		Rating:      p.Rating,
		Stock:       p.Stock,
		Description: desc,
		Image:       p.Image,
		URL:         ProductURL(baseURL, p.ID),
	}
}

// ProductURL returns the public product page link for id.
func ProductURL(baseURL, id string) string {
	return baseURL + "/product/" + id
}

// RawProduct is a product record as served by the upstream catalogue provider.
type RawProduct struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Category    string      `json:"category"`
	Brand       string      `json:"brand,omitempty"`
	Price       float64     `json:"price"`
	Description string      `json:"description"`
	Rating      float64     `json:"rating"`
	Stock       int         `json:"stock"`
	Thumbnail   string      `json:"thumbnail"`
}

// RawCatalog is the upstream catalogue payload.
type RawCatalog struct {
	Products []RawProduct `json:"products"`
}

// ProductListResponse is the response payload for GET /api/products.
type ProductListResponse struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

// SearchResponse is the response payload for GET /api/products/search.
type SearchResponse struct {
	Query    string           `json:"query"`
	Category string           `json:"category"`
	Total    int              `json:"total"`
	Products []ProductSummary `json:"products"`
}

// CategoriesResponse is the response payload for GET /api/categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ProductDetail is the response payload for GET /api/products/{id}.
type ProductDetail struct {
	Product
	URL string `json:"url"`
}

// CatalogOverview describes the live catalogue for discovery documents.
type CatalogOverview struct {
	Count      int
	Categories []string
}
