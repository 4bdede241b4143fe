package storage

import (
	"context"
	"time"
)

// Package storage contains the object-storage abstraction for S3-compatible
// backends. Nothing here touches object content: the only operation this
// service needs is minting time-limited signed upload URLs.

// SignedUpload is the result of presigning one upload slot. Token is an
// opaque credential tied to the URL; clients echo it when uploading.
type SignedUpload struct {
	Path      string
	SignedURL string
	Token     string
}

// Signer mints signed upload URLs against an S3-compatible backend.
type Signer interface {
	// PresignUpload returns a URL that allows exactly one PUT of the object
	// at (bucket, key) until the expiry window lapses.
	PresignUpload(ctx context.Context, bucket, key string, expiry time.Duration) (SignedUpload, error)
}
