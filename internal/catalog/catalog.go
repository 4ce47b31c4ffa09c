// Package catalog loads the upstream product catalogue once per process and
// serves it from memory.
package catalog

import (
	"sort"

	"milamart/internal/model"
)

// Catalog is an immutable, normalised product set with an id index.
type Catalog struct {
	products   []model.Product
	index      map[string]int
	categories []string
}

// New builds a Catalog over products. products must have unique ids and must not
// be modified afterwards.
func New(products []model.Product) *Catalog {
	index := make(map[string]int, len(products))
	unique := make(map[string]struct{})
	for i, p := range products {
		index[p.ID] = i
		unique[p.Category] = struct{}{}
	}

	categories := make([]string, 0, len(unique))
	for category := range unique {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return &Catalog{
		products:   products,
		index:      index,
		categories: categories,
	}
}

// Products returns the products in source order. The slice is shared and must not be modified.
func (c *Catalog) Products() []model.Product {
	return c.products
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// ByID looks up a product by id.
func (c *Catalog) ByID(id string) (model.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i], true
}

// Categories returns the sorted, unique category names.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}
