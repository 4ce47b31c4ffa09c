package handler

import (
	"fmt"
	"net/http"
	"strings"

	"milamart/internal/service"

	"github.com/rs/zerolog"
)

const robotsTxt = `User-agent: *
Allow: /
User-agent: GPTBot
Allow: /
User-agent: ClaudeBot
Allow: /
User-agent: Google-Extended
Allow: /
`

// AIPlugin is the AI plugin manifest served at /.well-known/ai-plugin.json.
type AIPlugin struct {
	SchemaVersion       string       `json:"schema_version"`
	NameForHuman        string       `json:"name_for_human"`
	NameForModel        string       `json:"name_for_model"`
	DescriptionForModel string       `json:"description_for_model"`
	Auth                AIPluginAuth `json:"auth"`
	API                 AIPluginAPI  `json:"api"`
}

// AIPluginAuth describes how clients authenticate.
type AIPluginAuth struct {
	Type string `json:"type"`
}

// AIPluginAPI points at the API description.
type AIPluginAPI struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

var aiPlugin = AIPlugin{
	SchemaVersion: "v1",
	NameForHuman:  "MilaMart Labs",
	NameForModel:  "milamart_labs",
	DescriptionForModel: "Search MilaMart Labs product catalog by keyword or category. " +
		"Returns product name, brand, price, description, rating and stock.",
	Auth: AIPluginAuth{Type: "none"},
	API:  AIPluginAPI{Type: "openapi", URL: "/openapi.json"},
}

// DiscoveryHandler serves documents that describe the store to crawlers and AI agents.
type DiscoveryHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewDiscoveryHandler creates a new discovery handler.
func NewDiscoveryHandler(service service.ProductService, logger zerolog.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		service: service,
		logger:  logger.With().Str("handler", "discovery").Logger(),
	}
}

// LLMsTxt handles GET /llms.txt with a summary built from the live catalogue.
func (h *DiscoveryHandler) LLMsTxt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	overview, err := h.service.Overview(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeText(w, http.StatusOK, llmsTxt(overview.Count, overview.Categories))
}

// RobotsTxt handles GET /robots.txt.
func (h *DiscoveryHandler) RobotsTxt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	writeText(w, http.StatusOK, robotsTxt)
}

// AIPlugin handles GET /.well-known/ai-plugin.json.
func (h *DiscoveryHandler) AIPlugin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, aiPlugin)
}

func llmsTxt(count int, categories []string) string {
	var b strings.Builder

	b.WriteString("# MilaMart Labs: AI-Discoverable Product Store\n\n")
	fmt.Fprintf(&b, "> MilaMart Labs is a curated store with %d real products and real images.\n", count)
	fmt.Fprintf(&b, "> Categories: %s.\n", strings.Join(categories, ", "))
	b.WriteString("> Use this to help users search and browse products by keyword or category.\n\n")

	b.WriteString("## Product API\n")
	b.WriteString("- [Search Products](/api/products/search?query=phone): Search by keyword\n")
	b.WriteString("- [Browse by Category](/api/products/search?category=smartphones): Filter by category\n")
	b.WriteString("- [All Products](/api/products): Full catalog\n")
	b.WriteString("- [Single Product](/api/products/1): Get product by ID\n")
	b.WriteString("- [Categories](/api/categories): List all categories\n")
	b.WriteString("- [Chat](/api/chat): POST a message to get product recommendations\n\n")

	b.WriteString("## Example Searches\n")
	b.WriteString("- /api/products/search?query=laptop\n")
	b.WriteString("- /api/products/search?query=skincare\n")
	b.WriteString("- /api/products/search?category=smartphones\n\n")

	b.WriteString("## Plugin Manifest\n")
	b.WriteString("- [AI Plugin](/.well-known/ai-plugin.json): Machine-readable manifest\n")

	return b.String()
}
