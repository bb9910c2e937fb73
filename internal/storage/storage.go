// Package storage defines the interface for object storage operations.
// The concrete type is injected at startup; the MinIO implementation works
// with any S3-compatible provider.
package storage

import (
	"context"
	"io"
)

// Storage is the interface for uploading and retrieving image objects.
// Keys must be unique per upload — the store does not guard against
// overwrites, callers do (see gallery.Service naming policy).
type Storage interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	// Pure: it never touches the network.
	PublicURL(key string) string
}
