package blobstore

import (
	"context"
	"io"
	"time"
)

// ObjectMeta describes a stored object as reported by a HEAD request.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	ETag        string
	UpdatedAt   time.Time
}

// Client performs signed operations against an S3-compatible object store.
type Client interface {
	// Put stores data under key. The payload is deflate-compressed before
	// transmission and the transport encoding is marked accordingly.
	Put(ctx context.Context, key string, data []byte) error

	// Get fetches an object through a time-limited presigned URL.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	Head(ctx context.Context, key string) (*ObjectMeta, error)

	// Exists reports whether key is present. Any non-404 HEAD outcome is
	// treated as existing, so transient store failures read as "exists".
	Exists(ctx context.Context, key string) (bool, error)

	List(ctx context.Context) ([]string, error)

	Delete(ctx context.Context, key string) error
}
