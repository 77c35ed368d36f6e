// Package storage holds the snapshot sinks the export command writes to.
package storage

import (
	"context"
	"strings"
)

// BlobStore is the interface for abstract snapshot storage backends.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// IsS3Target reports whether an export target addresses S3.
func IsS3Target(target string) bool {
	return strings.HasPrefix(target, "s3://")
}

// SplitS3Target splits "s3://bucket/prefix" into bucket and prefix.
func SplitS3Target(target string) (bucket, prefix string) {
	rest := strings.TrimPrefix(target, "s3://")
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.Trim(prefix, "/")
}
