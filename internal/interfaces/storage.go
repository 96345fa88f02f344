// Package interfaces defines service contracts for StockGraph
package interfaces

import (
	"context"
	"errors"
)

// ErrNotFound is returned by BlobStore.GetObject when the key does not exist.
// Absence is an expected condition, distinct from read failures.
var ErrNotFound = errors.New("object not found")

// BlobStore is a key-value store for JSON blobs. Writes are atomic overwrites;
// last writer wins, no versioning.
type BlobStore interface {
	// GetObject returns the stored bytes for key, or ErrNotFound.
	GetObject(ctx context.Context, key string) ([]byte, error)

	// PutObject stores data under key, overwriting unconditionally.
	PutObject(ctx context.Context, key string, data []byte) error

	// DeleteObject removes key. Deleting a missing key is not an error.
	DeleteObject(ctx context.Context, key string) error

	Close() error
}
