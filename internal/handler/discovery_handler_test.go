package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"milamart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDiscoveryHandler_LLMsTxt(t *testing.T) {
	mockService := new(MockProductService)
	mockService.On("Overview", mock.Anything).Return(&model.CatalogOverview{
		Count:      2,
		Categories: []string{"Laptops", "Smartphones"},
	}, nil)

	w := httptest.NewRecorder()
	NewDiscoveryHandler(mockService, zerolog.Nop()).LLMsTxt(w, httptest.NewRequest(http.MethodGet, "/llms.txt", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "curated store with 2 real products")
	assert.Contains(t, body, "> Categories: Laptops, Smartphones.")
	assert.Contains(t, body, "/api/products/search?query=phone")
	assert.Contains(t, body, "/api/categories")
}

func TestDiscoveryHandler_LLMsTxt_CatalogUnavailable(t *testing.T) {
	mockService := new(MockProductService)
	mockService.On("Overview", mock.Anything).Return(nil, model.ErrUpstreamTimeout)

	w := httptest.NewRecorder()
	NewDiscoveryHandler(mockService, zerolog.Nop()).LLMsTxt(w, httptest.NewRequest(http.MethodGet, "/llms.txt", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestDiscoveryHandler_RobotsTxt(t *testing.T) {
	mockService := new(MockProductService)

	w := httptest.NewRecorder()
	NewDiscoveryHandler(mockService, zerolog.Nop()).RobotsTxt(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	for _, agent := range []string{"*", "GPTBot", "ClaudeBot", "Google-Extended"} {
		assert.Contains(t, w.Body.String(), "User-agent: "+agent+"\nAllow: /\n")
	}
	mockService.AssertNotCalled(t, "Overview", mock.Anything)
}

func TestDiscoveryHandler_AIPlugin(t *testing.T) {
	w := httptest.NewRecorder()
	NewDiscoveryHandler(new(MockProductService), zerolog.Nop()).AIPlugin(w, httptest.NewRequest(http.MethodGet, "/.well-known/ai-plugin.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"schema_version": "v1",
		"name_for_human": "MilaMart Labs",
		"name_for_model": "milamart_labs",
		"description_for_model": "Search MilaMart Labs product catalog by keyword or category. Returns product name, brand, price, description, rating and stock.",
		"auth": {"type": "none"},
		"api": {"type": "openapi", "url": "/openapi.json"}
	}`, w.Body.String())
}

func TestDiscoveryHandler_MethodNotAllowed(t *testing.T) {
	h := NewDiscoveryHandler(new(MockProductService), zerolog.Nop())

	for _, fn := range []http.HandlerFunc{h.LLMsTxt, h.RobotsTxt, h.AIPlugin} {
		w := httptest.NewRecorder()
		fn(w, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	}
}
