package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/calebds/pagetext/internal/config"
)

// ObjectStore is the object-storage capability the pipeline needs: write an
// object and derive its public address.
type ObjectStore interface {
	PutText(ctx context.Context, key string, content []byte) error
	ObjectURL(key string) string
}

// S3Store talks to S3 or any S3-compatible endpoint through minio-go. The
// client is safe for concurrent use, so one instance is shared across all
// workers.
type S3Store struct {
	client   *minio.Client
	bucket   string
	region   string
	endpoint string
	useSSL   bool
}

func NewS3Store(aws config.AWSConfig, cfg config.StorageConfig) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(aws.AccessKey, aws.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: aws.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Store{
		client:   client,
		bucket:   cfg.Bucket,
		region:   aws.Region,
		endpoint: cfg.Endpoint,
		useSSL:   cfg.UseSSL,
	}, nil
}

// PutText uploads content as a plain-text object.
func (s *S3Store) PutText(ctx context.Context, key string, content []byte) error {
	opts := minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), opts)
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// ObjectURL returns the virtual-host address of an object in the store's
// bucket. Against AWS proper this is the regional form; for a custom
// endpoint the bucket is prefixed onto the endpoint host.
func (s *S3Store) ObjectURL(key string) string {
	if s.endpoint == "s3.amazonaws.com" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
	scheme := "https"
	if !s.useSSL {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, s.bucket, s.endpoint, key)
}
