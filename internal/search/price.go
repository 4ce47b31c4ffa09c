package search

import (
	"regexp"
	"strconv"
	"strings"

	"milamart/internal/model"
)

var priceCapPattern = regexp.MustCompile(`under \$(\d+)`)

// ParsePriceCap extracts N from the first "under $N" phrase in message, ignoring case.
func ParsePriceCap(message string) (float64, bool) {
	m := priceCapPattern.FindStringSubmatch(strings.ToLower(message))
	if m == nil {
		return 0, false
	}

	limit, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return limit, true
}

// filterByPrice keeps up to max products priced at or below limit, preserving order.
func filterByPrice(products []model.Product, limit float64, max int) []model.Product {
	var out []model.Product
	for _, p := range products {
		if p.Price > limit {
			continue
		}
		out = append(out, p)
		if len(out) == max {
			break
		}
	}
	return out
}
