package catalog

import (
	"strings"

	"milamart/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// homeDecorationCategory is the raw category whose products get a synthesized brand.
const homeDecorationCategory = "home-decoration"

// NormalizerConfig holds the catalogue-shaping rules applied at load time.
type NormalizerConfig struct {
	// ExcludedCategories are raw category names whose products are dropped.
	ExcludedCategories []string

	// HomeDecorBrands are assigned round-robin to home-decoration products without a brand.
	HomeDecorBrands []string
}

// NormalizeStats describes what a Normalize call did to its input.
type NormalizeStats struct {
	Input          int
	Excluded       int
	Duplicates     int
	MissingID      int
	BrandsAssigned int
}

// Normalizer turns raw upstream records into store products.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	excluded map[string]struct{}
	brands   []string
}

// NewNormalizer creates a Normalizer from cfg.
func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	excluded := make(map[string]struct{}, len(cfg.ExcludedCategories))
	for _, category := range cfg.ExcludedCategories {
		excluded[category] = struct{}{}
	}

	return &Normalizer{
		excluded: excluded,
		brands:   append([]string(nil), cfg.HomeDecorBrands...),
	}
}

// Normalize filters and maps raw records, preserving source order.
//
// Records in an excluded category are dropped, categories are de-hyphenated and
// title-cased, and home-decoration records without a brand get the next brand
// from the configured list. The brand counter only advances over such records,
// so the assignment is reproducible for the same input order. Records without an
// id and repeats of an id already seen are dropped.
func (n *Normalizer) Normalize(raw []model.RawProduct) ([]model.Product, NormalizeStats) {
	stats := NormalizeStats{Input: len(raw)}

	// A Caser is stateful and must not be shared between goroutines.
	caser := cases.Title(language.Und)

	products := make([]model.Product, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	brandIdx := 0

	for _, r := range raw {
		if _, skip := n.excluded[r.Category]; skip {
			stats.Excluded++
			continue
		}

		id := r.ID.String()
		if id == "" {
			stats.MissingID++
			continue
		}
		if _, dup := seen[id]; dup {
			stats.Duplicates++
			continue
		}
		seen[id] = struct{}{}

		brand := r.Brand
		if r.Category == homeDecorationCategory && brand == "" && len(n.brands) > 0 {
			brand = n.brands[brandIdx%len(n.brands)]
			brandIdx++
			stats.BrandsAssigned++
		}

		products = append(products, model.Product{
			ID:          id,
			Name:        r.Title,
			Brand:       brand,
			Category:    caser.String(strings.ReplaceAll(r.Category, "-", " ")),
			Price:       r.Price,
			Description: r.Description,
			Rating:      r.Rating,
			Stock:       r.Stock,
			Image:       r.Thumbnail,
		})
	}

	return products, stats
}
