// Package search implements the catalogue query engine: keyword and category
// filtering, the chat product matcher and its helpers. Everything here is a pure
// function of its inputs and safe for concurrent use.
package search

import (
	"strings"

	"milamart/internal/model"
)

// Query describes a product filter. Empty fields do not filter.
type Query struct {
	// Keyword is matched as a case-insensitive substring of name, description, category or brand.
	Keyword string

	// Category is matched case-insensitively against the whole category name.
	Category string

	// MaxResults truncates the result when positive.
	MaxResults int
}

// Filter returns the products matching q, in catalogue order.
func Filter(products []model.Product, q Query) []model.Product {
	keyword := strings.ToLower(q.Keyword)

	results := make([]model.Product, 0)
	for _, p := range products {
		if keyword != "" && !matchesKeyword(p, keyword) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}

		results = append(results, p)
		if q.MaxResults > 0 && len(results) == q.MaxResults {
			break
		}
	}

	return results
}

// matchesKeyword reports whether the lowercased keyword occurs in any searchable field of p.
func matchesKeyword(p model.Product, keyword string) bool {
	return strings.Contains(strings.ToLower(p.Name), keyword) ||
		strings.Contains(strings.ToLower(p.Description), keyword) ||
		strings.Contains(strings.ToLower(p.Category), keyword) ||
		strings.Contains(strings.ToLower(p.Brand), keyword)
}
