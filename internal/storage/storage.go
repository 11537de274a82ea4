package storage

import (
	"context"
	"io"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service fronts the object store that holds summary audio and user
// uploads such as avatars.
type Service interface {
	// PresignGet returns a time-limited URL for streaming one object.
	PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	// Upload stores a single object.
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	DeleteObject(ctx context.Context, bucket, key string) error
}
