package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"milamart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upstreamPayload = `{
	"products": [
		{"id": 1, "title": "Essence Mascara Lash Princess", "category": "beauty", "brand": "Essence",
		 "price": 9.99, "description": "A popular mascara", "rating": 4.94, "stock": 5,
		 "thumbnail": "https://cdn.dummyjson.com/1/thumbnail.png"},
		{"id": 2, "title": "Decoration Swing", "category": "home-decoration",
		 "price": 59.99, "description": "A swing", "rating": 3.16, "stock": 47,
		 "thumbnail": "https://cdn.dummyjson.com/2/thumbnail.png"}
	],
	"total": 2, "skip": 0, "limit": 194
}`

func TestHTTPSource_Fetch(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		timeout   time.Duration
		expectErr error
		records   int
	}{
		{
			name: "Success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "194", r.URL.Query().Get("limit"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(upstreamPayload))
			},
			timeout: time.Second,
			records: 2,
		},
		{
			name: "Server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			timeout:   time.Second,
			expectErr: model.ErrCatalogUnavailable,
		},
		{
			name: "Not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			timeout:   time.Second,
			expectErr: model.ErrCatalogUnavailable,
		},
		{
			name: "Malformed JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"products": [`))
			},
			timeout:   time.Second,
			expectErr: model.ErrUpstreamMalformed,
		},
		{
			name: "Missing products list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"items": []}`))
			},
			timeout:   time.Second,
			expectErr: model.ErrUpstreamMalformed,
		},
		{
			name: "Timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
			timeout:   20 * time.Millisecond,
			expectErr: model.ErrUpstreamTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			source := NewHTTPSource(server.URL+"/products?limit=194", tt.timeout, zerolog.Nop())
			assert.Equal(t, "http", source.Name())

			raw, err := source.Fetch(context.Background())

			if tt.expectErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, raw)
				return
			}

			require.NoError(t, err)
			require.Len(t, raw.Products, tt.records)
			assert.Equal(t, "1", raw.Products[0].ID.String())
			assert.Equal(t, "Essence", raw.Products[0].Brand)
			assert.Empty(t, raw.Products[1].Brand)
		})
	}
}

func TestHTTPSource_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, time.Minute, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := source.Fetch(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUpstreamTimeout)
}

func TestHTTPSource_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	source := NewHTTPSource(url, time.Second, zerolog.Nop())

	_, err := source.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCatalogUnavailable)
}
