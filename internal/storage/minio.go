package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"kitloop/internal/config"
)

// minioSigner implements the Signer interface using an S3-compatible backend
// (MinIO, AWS S3, etc.). It is safe for concurrent use by multiple goroutines.
type minioSigner struct {
	client *minio.Client
}

// NewMinIO creates a new S3-compatible signer backed by MinIO. It validates
// connectivity and ensures every bucket in the given list exists (creating
// missing ones).
func NewMinIO(cfg config.MinIOConfig, buckets []string) (Signer, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, bucket := range buckets {
		exists, err := cli.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s existence: %w", bucket, err)
		}
		if !exists {
			if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}

	return &minioSigner{client: cli}, nil
}

// PresignUpload mints a presigned PUT URL for the object. The token is the
// request signature; the storage backend enforces the expiry window.
func (m *minioSigner) PresignUpload(ctx context.Context, bucket, key string, expiry time.Duration) (SignedUpload, error) {
	u, err := m.client.PresignedPutObject(ctx, bucket, key, expiry)
	if err != nil {
		return SignedUpload{}, fmt.Errorf("presign put object: %w", err)
	}
	return SignedUpload{
		Path:      key,
		SignedURL: u.String(),
		Token:     u.Query().Get("X-Amz-Signature"),
	}, nil
}
