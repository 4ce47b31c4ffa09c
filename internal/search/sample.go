package search

import (
	"math/rand/v2"

	"milamart/internal/model"
)

// Sample picks min(n, len(products)) distinct products at random.
// A nil rng uses the package-level generator.
func Sample(products []model.Product, n int, rng *rand.Rand) []model.Product {
	if n > len(products) {
		n = len(products)
	}
	if n <= 0 {
		return []model.Product{}
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	// Partial Fisher-Yates over indices so products is left untouched.
	idx := make([]int, len(products))
	for i := range idx {
		idx[i] = i
	}

	out := make([]model.Product, n)
	for i := 0; i < n; i++ {
		j := i + intN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = products[idx[i]]
	}
	return out
}
