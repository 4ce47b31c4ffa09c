package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"milamart/internal/model"
)

// Source yields the raw upstream catalogue.
type Source interface {
	// Fetch reads the full raw catalogue.
	Fetch(ctx context.Context) (*model.RawCatalog, error)

	// Name identifies the source in logs.
	Name() string
}

// Archiver stores a copy of a raw catalogue so it can later be served by a Source.
type Archiver interface {
	// Archive replaces the stored snapshot with raw.
	Archive(ctx context.Context, raw *model.RawCatalog) error

	// Name identifies the archive in logs.
	Name() string
}

// Store is a snapshot location that can be both read and written.
type Store interface {
	Source
	Archiver
}

// decodeRawCatalog parses a {"products": [...]} payload.
// Undecodable payloads and payloads without a products list are reported as ErrUpstreamMalformed.
func decodeRawCatalog(r io.Reader) (*model.RawCatalog, error) {
	var raw model.RawCatalog
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUpstreamMalformed, err)
	}

	if raw.Products == nil {
		return nil, fmt.Errorf("%w: missing products list", model.ErrUpstreamMalformed)
	}

	return &raw, nil
}

// decodeSnapshot parses a snapshot that is gzip-compressed when name ends in ".gz".
func decodeSnapshot(r io.Reader, name string) (*model.RawCatalog, error) {
	if !isGzip(name) {
		return decodeRawCatalog(r)
	}

	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gzip reader for %s: %v", model.ErrUpstreamMalformed, name, err)
	}
	defer gzipReader.Close()

	return decodeRawCatalog(gzipReader)
}

// encodeSnapshot writes raw as JSON, gzip-compressed when name ends in ".gz".
func encodeSnapshot(w io.Writer, name string, raw *model.RawCatalog) error {
	if !isGzip(name) {
		return json.NewEncoder(w).Encode(raw)
	}

	gzipWriter := gzip.NewWriter(w)
	if err := json.NewEncoder(gzipWriter).Encode(raw); err != nil {
		gzipWriter.Close()
		return err
	}
	return gzipWriter.Close()
}

func isGzip(name string) bool {
	return strings.HasSuffix(name, ".gz")
}

// checkContext returns ctx.Err() when ctx is already done.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
