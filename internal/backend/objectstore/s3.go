// Package objectstore implements the object-storage capability on any
// S3-compatible service (AWS S3, MinIO). Uploaded article images are public
// objects addressed by endpoint/bucket/key.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nannuru/publisher/internal/client/backend"
)

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string

	// PublicBaseURL is the address public object URLs are built from.
	// Defaults to Endpoint when empty.
	PublicBaseURL string
}

type S3Storage struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

var _ backend.ObjectStorage = (*S3Storage)(nil)

func New(ctx context.Context, cfg Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := cfg.PublicBaseURL
	if base == "" {
		base = cfg.Endpoint
	}

	return &S3Storage{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimSuffix(base, "/"),
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, path string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	return nil
}

func (s *S3Storage) GetPublicURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, strings.TrimPrefix(path, "/"))
}
