package search

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"milamart/internal/model"
)

const (
	// MaxChatProducts is the most products a chat reply carries.
	MaxChatProducts = 4

	// SuggestionCount is the number of random products offered when nothing matches.
	SuggestionCount = 3

	minTokenLength = 3
)

// NoMatchReply is returned together with random suggestions when nothing matches.
const NoMatchReply = "I couldn't find an exact match, but here are some products you might like! " +
	"You can also try searching for: laptops, phones, skincare, watches, furniture or jewellery."

var stopwords = map[string]struct{}{
	"show": {}, "me": {}, "find": {}, "get": {}, "i": {}, "want": {}, "need": {},
	"looking": {}, "for": {}, "some": {}, "a": {}, "an": {}, "the": {}, "please": {},
	"can": {}, "you": {}, "have": {}, "do": {}, "what": {}, "any": {}, "is": {},
	"are": {}, "with": {}, "under": {}, "over": {}, "cheap": {}, "best": {}, "good": {},
}

// Tokenize lowercases message, splits it on whitespace and drops stopwords and
// tokens shorter than three characters.
func Tokenize(message string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(message)) {
		if _, stop := stopwords[word]; stop {
			continue
		}
		if utf8.RuneCountInString(word) < minTokenLength {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// Score counts the tokens that occur in p's name, category, brand or description.
// Tokens must already be lowercase.
func Score(p model.Product, tokens []string) int {
	name := strings.ToLower(p.Name)
	category := strings.ToLower(p.Category)
	brand := strings.ToLower(p.Brand)
	description := strings.ToLower(p.Description)

	score := 0
	for _, token := range tokens {
		if strings.Contains(name, token) ||
			strings.Contains(category, token) ||
			strings.Contains(brand, token) ||
			strings.Contains(description, token) {
			score++
		}
	}
	return score
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithRand sets the randomness source used for suggestions.
func WithRand(rng *rand.Rand) Option {
	return func(m *Matcher) {
		m.rng = rng
	}
}

// Matcher answers free-text chat messages with products from the catalogue.
type Matcher struct {
	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewMatcher creates a Matcher.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match ranks products against message and builds a conversational reply.
//
// Products are scored by token overlap and the best four kept, ties in catalogue
// order. An "under $N" phrase then restricts the candidates, or the whole catalogue
// when nothing scored, to products priced at most N. When no candidates remain the
// reply offers random suggestions instead. history is accepted for context but
// does not influence matching.
func (m *Matcher) Match(products []model.Product, message string, history []model.ChatTurn) (string, []model.Product) {
	candidates := m.rank(products, Tokenize(message))

	if limit, ok := ParsePriceCap(message); ok {
		pool := candidates
		if len(pool) == 0 {
			pool = products
		}
		candidates = filterByPrice(pool, limit, MaxChatProducts)
	}

	if len(candidates) > 0 {
		return FoundReply(candidates), candidates
	}

	return NoMatchReply, m.suggest(products)
}

func (m *Matcher) rank(products []model.Product, tokens []string) []model.Product {
	if len(tokens) == 0 {
		return nil
	}

	type scored struct {
		product model.Product
		score   int
	}

	var matched []scored
	for _, p := range products {
		if s := Score(p, tokens); s > 0 {
			matched = append(matched, scored{product: p, score: s})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	if len(matched) > MaxChatProducts {
		matched = matched[:MaxChatProducts]
	}

	out := make([]model.Product, len(matched))
	for i, s := range matched {
		out[i] = s.product
	}
	return out
}

func (m *Matcher) suggest(products []model.Product) []model.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Sample(products, SuggestionCount, m.rng)
}

// FoundReply describes a non-empty candidate list, naming at most the first two products.
func FoundReply(candidates []model.Product) string {
	n := len(candidates)
	shown := candidates
	if len(shown) > 2 {
		shown = shown[:2]
	}

	names := make([]string, len(shown))
	for i, p := range shown {
		names[i] = p.Name
	}

	plural, verb, more := "", "is", ""
	if n > 1 {
		plural, verb = "s", "are"
	}
	if n > 2 {
		more = " and more"
	}

	return fmt.Sprintf("I found %d product%s for you! Here %s **%s**%s. Click any product to see full details.",
		n, plural, verb, strings.Join(names, ", "), more)
}
