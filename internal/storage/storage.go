// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider (MinIO, AWS S3).
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// ErrAlreadyExists is returned when a put targets a key that is already taken.
var ErrAlreadyExists = errors.New("object already exists")

// Metadata is the set of user-defined key/value pairs attached to an object.
type Metadata map[string]string

// ObjectInfo describes a stored object without its content.
type ObjectInfo struct {
	Key         string
	ContentType string
	Size        int64
	Metadata    Metadata
}

// Store is the interface for the object storage backend. Implementations map
// backend-specific error codes onto ErrNotFound / ErrAlreadyExists so callers
// never handle SDK error types.
type Store interface {
	// Put streams data to the store under key. It fails with ErrAlreadyExists
	// when an object with that key is already present.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string, meta Metadata) error
	// Get returns the object content and its info. The caller must close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Stat returns object info without fetching content.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// List enumerates every object in the container. Unpaginated: cost is
	// proportional to container size.
	List(ctx context.Context) ([]ObjectInfo, error)
	// Delete removes the object at key, failing with ErrNotFound when absent.
	Delete(ctx context.Context, key string) error
	// PresignedURL mints a time-limited read-only URL for the object.
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	// ContainerURL returns the addressable base URL of the container.
	ContainerURL() string
}
