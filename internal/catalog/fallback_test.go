package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"milamart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackSource_PrimarySuccess(t *testing.T) {
	primary := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		return testRawCatalog(), nil
	}}
	secondary := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		t.Error("secondary should not be called when the primary succeeds")
		return nil, errors.New("should not be called")
	}}

	source := NewFallbackSource(primary, secondary, time.Second, zerolog.Nop())

	raw, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, raw.Products, 3)
	assert.Equal(t, "stub+stub", source.Name())
}

func TestFallbackSource_PrimaryFailsFallsBack(t *testing.T) {
	primary := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		return nil, model.ErrUpstreamTimeout
	}}
	secondary := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		return testRawCatalog(), nil
	}}

	source := NewFallbackSource(primary, secondary, time.Second, zerolog.Nop())

	raw, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, raw.Products, 3)
	assert.Equal(t, int32(1), secondary.calls.Load())
}

func TestFallbackSource_SecondaryGetsOwnDeadline(t *testing.T) {
	primary := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	secondary := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return testRawCatalog(), nil
	}}

	source := NewFallbackSource(primary, secondary, time.Second, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	raw, err := source.Fetch(ctx)
	require.NoError(t, err)
	assert.Len(t, raw.Products, 3)
}

func TestFallbackSource_BothFail(t *testing.T) {
	primary := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		return nil, errors.New("upstream down")
	}}
	secondary := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		return nil, model.ErrCatalogUnavailable
	}}

	source := NewFallbackSource(primary, secondary, time.Second, zerolog.Nop())

	_, err := source.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCatalogUnavailable)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestFallbackSource_NilSecondary(t *testing.T) {
	primary := &stubSource{fetchFunc: func(ctx context.Context, call int) (*model.RawCatalog, error) {
		return testRawCatalog(), nil
	}}

	source := NewFallbackSource(primary, nil, time.Second, zerolog.Nop())
	assert.Same(t, primary, source)
}
