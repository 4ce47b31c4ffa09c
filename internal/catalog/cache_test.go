package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"milamart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource is a Source whose behaviour is driven by fetchFunc.
type stubSource struct {
	calls     atomic.Int32
	fetchFunc func(ctx context.Context, call int) (*model.RawCatalog, error)
}

func (s *stubSource) Fetch(ctx context.Context) (*model.RawCatalog, error) {
	call := int(s.calls.Add(1))
	return s.fetchFunc(ctx, call)
}

func (s *stubSource) Name() string {
	return "stub"
}

// stubArchiver records archived catalogues.
type stubArchiver struct {
	mu       sync.Mutex
	archived []*model.RawCatalog
	err      error
}

func (a *stubArchiver) Archive(ctx context.Context, raw *model.RawCatalog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.archived = append(a.archived, raw)
	return a.err
}

func (a *stubArchiver) Name() string {
	return "stub-archive"
}

func testRawCatalog() *model.RawCatalog {
	return &model.RawCatalog{Products: []model.RawProduct{
		rawProduct("1", "Essence Mascara", "beauty", "Essence", 9.99),
		rawProduct("2", "Apple", "groceries", "", 1.99),
		rawProduct("3", "Table Lamp", "home-decoration", "", 45),
	}}
}

func newTestCache(source Source, cfg CacheConfig) *Cache {
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = time.Millisecond
	}
	return NewCache(source, newTestNormalizer(), cfg, zerolog.Nop())
}

func TestCache_LoadOnce(t *testing.T) {
	source := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		return testRawCatalog(), nil
	}}
	cache := newTestCache(source, CacheConfig{})

	assert.False(t, cache.Loaded())

	first, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Len())
	assert.True(t, cache.Loaded())

	second, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), source.calls.Load())

	lamp, ok := first.ByID("3")
	require.True(t, ok)
	assert.Equal(t, "IKEA", lamp.Brand)
}

func TestCache_ConcurrentFirstCallersShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	source := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		<-release
		return testRawCatalog(), nil
	}}
	cache := newTestCache(source, CacheConfig{})

	const callers = 50
	results := make([]*Catalog, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cat, err := cache.Load(context.Background())
			assert.NoError(t, err)
			results[i] = cat
		}(i)
	}

	// Give the callers time to join the in-flight load.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), source.calls.Load())
	for _, cat := range results {
		assert.Same(t, results[0], cat)
	}
}

func TestCache_FailureIsNotCached(t *testing.T) {
	source := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		if call == 1 {
			return nil, errors.New("connection refused")
		}
		return testRawCatalog(), nil
	}}
	cache := newTestCache(source, CacheConfig{})

	_, err := cache.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCatalogUnavailable)
	assert.False(t, cache.Loaded())

	cat, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestCache_Retry(t *testing.T) {
	tests := []struct {
		name          string
		attempts      int
		failures      int
		failWith      error
		expectErr     error
		expectedCalls int32
	}{
		{
			name:          "Succeeds after transient failures",
			attempts:      3,
			failures:      2,
			failWith:      model.ErrCatalogUnavailable,
			expectedCalls: 3,
		},
		{
			name:          "Gives up after configured attempts",
			attempts:      2,
			failures:      5,
			failWith:      model.ErrCatalogUnavailable,
			expectErr:     model.ErrCatalogUnavailable,
			expectedCalls: 2,
		},
		{
			name:          "Single attempt by default",
			attempts:      0,
			failures:      1,
			failWith:      model.ErrUpstreamTimeout,
			expectErr:     model.ErrUpstreamTimeout,
			expectedCalls: 1,
		},
		{
			name:          "Malformed payload is not retried",
			attempts:      3,
			failures:      3,
			failWith:      model.ErrUpstreamMalformed,
			expectErr:     model.ErrUpstreamMalformed,
			expectedCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
				if call <= tt.failures {
					return nil, tt.failWith
				}
				return testRawCatalog(), nil
			}}
			cache := newTestCache(source, CacheConfig{RetryAttempts: tt.attempts})

			cat, err := cache.Load(context.Background())

			if tt.expectErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, cat)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, cat)
			}
			assert.Equal(t, tt.expectedCalls, source.calls.Load())
		})
	}
}

func TestCache_AttemptTimeout(t *testing.T) {
	source := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	cache := newTestCache(source, CacheConfig{Timeout: 10 * time.Millisecond})

	_, err := cache.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUpstreamTimeout)
	assert.Equal(t, model.ErrCodeUpstreamTimeout, model.ErrorCode(err))
}

func TestCache_CallerCancellationDoesNotAbortLoad(t *testing.T) {
	release := make(chan struct{})
	source := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		<-release
		return testRawCatalog(), nil
	}}
	cache := newTestCache(source, CacheConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Load(ctx)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	cat, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, int32(1), source.calls.Load())
}

func TestCache_Archive(t *testing.T) {
	raw := testRawCatalog()
	source := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		return raw, nil
	}}

	t.Run("Archives the raw catalogue", func(t *testing.T) {
		archiver := &stubArchiver{}
		cache := newTestCache(source, CacheConfig{Archiver: archiver})

		_, err := cache.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, archiver.archived, 1)
		assert.Same(t, raw, archiver.archived[0])
	})

	t.Run("Archive failure does not fail the load", func(t *testing.T) {
		archiver := &stubArchiver{err: errors.New("disk full")}
		cache := newTestCache(source, CacheConfig{Archiver: archiver})

		cat, err := cache.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, cat.Len())
	})
}
