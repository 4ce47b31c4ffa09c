package catalog

import (
	"bytes"
	"context"
	"fmt"

	"milamart/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3API is the subset of the S3 client used by the snapshot store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Store keeps a catalogue snapshot as a single S3 object.
type s3Store struct {
	client S3API
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Store creates an S3-backed snapshot store using the default AWS credential chain.
func NewS3Store(ctx context.Context, bucket, region, key string, logger zerolog.Logger) (Store, error) {
	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("key", key).
		Msg("S3 catalog store initialised")

	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, key, logger), nil
}

// NewS3StoreWithClient creates an S3 snapshot store around an existing client.
func NewS3StoreWithClient(client S3API, bucket, key string, logger zerolog.Logger) Store {
	return &s3Store{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger.With().Str("component", "catalog-s3-store").Logger(),
	}
}

func (s *s3Store) Name() string {
	return "s3"
}

// Fetch reads the snapshot object. Keys ending in ".gz" are decompressed.
func (s *s3Store) Fetch(ctx context.Context) (*model.RawCatalog, error) {
	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Msg("loading catalog snapshot from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("%w: failed to get object from S3 (bucket=%s, key=%s): %v",
			model.ErrCatalogUnavailable, s.bucket, s.key, err)
	}
	defer result.Body.Close()

	raw, err := decodeSnapshot(result.Body, s.key)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to decode catalog snapshot from S3")
		return nil, err
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Int("records", len(raw.Products)).
		Msg("catalog snapshot loaded successfully from S3")

	return raw, nil
}

// Archive uploads raw as the snapshot object.
func (s *s3Store) Archive(ctx context.Context, raw *model.RawCatalog) error {
	var buf bytes.Buffer
	if err := encodeSnapshot(&buf, s.key, raw); err != nil {
		return fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	}
	if isGzip(s.key) {
		input.ContentType = aws.String("application/gzip")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to put catalog snapshot to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, s.key, err)
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Int("records", len(raw.Products)).
		Msg("catalog snapshot uploaded to S3")

	return nil
}
