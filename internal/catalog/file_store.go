package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"milamart/internal/model"

	"github.com/rs/zerolog"
)

// fileStore keeps a catalogue snapshot in a local JSON file, gzipped when the path ends in ".gz".
type fileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a snapshot store backed by the file at path.
func NewFileStore(path string, logger zerolog.Logger) Store {
	return &fileStore{
		path:   path,
		logger: logger.With().Str("component", "catalog-file-store").Logger(),
	}
}

func (s *fileStore) Name() string {
	return "file"
}

// Fetch reads the snapshot file.
func (s *fileStore) Fetch(ctx context.Context) (*model.RawCatalog, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().Str("file", s.path).Msg("loading catalog snapshot file")

	file, err := os.Open(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to open catalog snapshot")
		return nil, fmt.Errorf("%w: failed to open catalog snapshot %s: %v", model.ErrCatalogUnavailable, s.path, err)
	}
	defer file.Close()

	raw, err := decodeSnapshot(file, s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to decode catalog snapshot")
		return nil, err
	}

	s.logger.Info().
		Str("file", s.path).
		Int("records", len(raw.Products)).
		Msg("catalog snapshot file loaded successfully")

	return raw, nil
}

// Archive writes raw to a temporary file and renames it over the snapshot path.
func (s *fileStore) Archive(ctx context.Context, raw *model.RawCatalog) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encodeSnapshot(tmp, s.path, raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write catalog snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close catalog snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace catalog snapshot %s: %w", s.path, err)
	}

	s.logger.Info().
		Str("file", s.path).
		Int("records", len(raw.Products)).
		Msg("catalog snapshot file written")

	return nil
}
