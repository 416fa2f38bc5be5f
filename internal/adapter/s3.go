package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the subset of *s3.Client used by the media host.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3MediaHost struct {
	client  s3API
	bucket  string
	baseURL string
	logger  *logger.Logger
}

// NewS3MediaHost builds an S3 media host. Credentials are resolved through
// the default AWS chain (environment, shared config, instance role).
func NewS3MediaHost(ctx context.Context, cfg config.S3, logger *logger.Logger) (*s3MediaHost, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: s3 bucket and region are required", ErrMediaHostConfig)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Err(err).Str("func", "adapter.NewS3MediaHost").Msg("error loading aws config")
		return nil, fmt.Errorf("%w: %w", ErrMediaHostConfig, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3MediaHost(client, cfg, logger), nil
}

func newS3MediaHost(client s3API, cfg config.S3, logger *logger.Logger) *s3MediaHost {
	return &s3MediaHost{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: s3ObjectBaseURL(cfg),
		logger:  logger,
	}
}

func (h *s3MediaHost) Upload(ctx context.Context, obj UploadObject) (StoredObject, error) {
	log := logger.FromContext(ctx)

	if obj.Key == "" || strings.HasPrefix(obj.Key, "/") {
		return StoredObject{}, fmt.Errorf("%w: %q", ErrInvalidObjectKey, obj.Key)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(obj.Key),
		Body:   obj.Body,
	}
	if obj.Size > 0 {
		input.ContentLength = aws.Int64(obj.Size)
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	if _, err := h.client.PutObject(ctx, input); err != nil {
		log.Err(err).Str("func", "*s3MediaHost.Upload").Str("key", obj.Key).Msg("error putting object")
		return StoredObject{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	log.Debug().Str("func", "*s3MediaHost.Upload").Str("key", obj.Key).Msg("object stored")
	return StoredObject{
		URL:      h.baseURL + "/" + obj.Key,
		PublicID: obj.Key,
	}, nil
}

func (h *s3MediaHost) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidObjectKey)
	}

	// DeleteObject succeeds for missing keys
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*s3MediaHost.Delete").Str("key", publicID).Msg("error deleting object")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}

func s3ObjectBaseURL(cfg config.S3) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "" && cfg.UsePathStyle:
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	case cfg.Endpoint != "":
		endpoint := strings.TrimRight(cfg.Endpoint, "/")
		scheme, host, ok := strings.Cut(endpoint, "://")
		if !ok {
			return endpoint + "/" + cfg.Bucket
		}
		return scheme + "://" + cfg.Bucket + "." + host
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}
