package router

import (
	"net/http"

	"milamart/internal/handler"
	"milamart/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Product   *handler.ProductHandler
	Chat      *handler.ChatHandler
	Discovery *handler.DiscoveryHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products", "/api/products/":
			h.Product.GetAll(w, r)
		case "/api/products/search", "/api/products/search/":
			h.Product.Search(w, r)
		default:
			h.Product.GetByID(w, r)
		}
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	mux.HandleFunc("/api/categories", h.Product.Categories)
	mux.HandleFunc("/api/chat", h.Chat.Chat)

	// Discovery documents for crawlers and AI agents
	mux.HandleFunc("/llms.txt", h.Discovery.LLMsTxt)
	mux.HandleFunc("/robots.txt", h.Discovery.RobotsTxt)
	mux.HandleFunc("/.well-known/ai-plugin.json", h.Discovery.AIPlugin)

	// Apply middleware in order: Recovery -> Logging -> RequestID -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
