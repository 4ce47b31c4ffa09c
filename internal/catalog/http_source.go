package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"milamart/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// httpSource reads the catalogue from the upstream product provider.
type httpSource struct {
	client *resty.Client
	url    string
	logger zerolog.Logger
}

// NewHTTPSource creates a Source that performs a single GET against url per Fetch.
func NewHTTPSource(url string, timeout time.Duration, logger zerolog.Logger) Source {
	logger = logger.With().Str("component", "catalog-http-source").Logger()

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger: logger})

	return &httpSource{
		client: client,
		url:    url,
		logger: logger,
	}
}

func (s *httpSource) Name() string {
	return "http"
}

// Fetch requests the catalogue once. There is no retry at this level.
func (s *httpSource) Fetch(ctx context.Context) (*model.RawCatalog, error) {
	s.logger.Info().Str("url", s.url).Msg("fetching catalog from upstream")

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.url)
	if err != nil {
		s.logger.Error().Err(err).Str("url", s.url).Msg("upstream request failed")
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", model.ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrCatalogUnavailable, err)
	}

	if resp.IsError() {
		s.logger.Error().
			Int("status", resp.StatusCode()).
			Str("url", s.url).
			Msg("upstream returned an error status")
		return nil, fmt.Errorf("%w: upstream status %s", model.ErrCatalogUnavailable, resp.Status())
	}

	raw, err := decodeRawCatalog(bytes.NewReader(resp.Body()))
	if err != nil {
		s.logger.Error().Err(err).Str("url", s.url).Msg("failed to decode upstream catalog")
		return nil, err
	}

	s.logger.Info().
		Int("records", len(raw.Products)).
		Dur("duration", time.Since(start)).
		Msg("upstream catalog fetched")

	return raw, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// restyLogger routes resty's internal messages through zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}
