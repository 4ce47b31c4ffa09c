package catalog

import (
	"context"
	"fmt"
	"time"

	"milamart/internal/model"

	"github.com/rs/zerolog"
)

// fallbackSource tries a primary source first, then falls back to a secondary one.
type fallbackSource struct {
	primary   Source
	secondary Source
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewFallbackSource creates a Source that reads secondary only when primary fails.
// The secondary read gets its own timeout, so a primary that used up the caller's
// deadline still leaves room for the fallback. If secondary is nil, primary is returned unchanged.
func NewFallbackSource(primary, secondary Source, timeout time.Duration, logger zerolog.Logger) Source {
	if secondary == nil {
		return primary
	}

	return &fallbackSource{
		primary:   primary,
		secondary: secondary,
		timeout:   timeout,
		logger:    logger.With().Str("component", "catalog-fallback-source").Logger(),
	}
}

func (s *fallbackSource) Name() string {
	return s.primary.Name() + "+" + s.secondary.Name()
}

// Fetch returns the primary catalogue, or the secondary one when the primary fails.
// When both fail the secondary error is returned with the primary error attached.
func (s *fallbackSource) Fetch(ctx context.Context) (*model.RawCatalog, error) {
	raw, err := s.primary.Fetch(ctx)
	if err == nil {
		return raw, nil
	}

	s.logger.Warn().
		Err(err).
		Str("primary", s.primary.Name()).
		Str("secondary", s.secondary.Name()).
		Msg("primary catalog source failed, falling back")

	fallbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	raw, fallbackErr := s.secondary.Fetch(fallbackCtx)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w (primary %s: %v)", fallbackErr, s.primary.Name(), err)
	}

	s.logger.Info().
		Str("secondary", s.secondary.Name()).
		Int("records", len(raw.Products)).
		Msg("catalog loaded from fallback source")

	return raw, nil
}
