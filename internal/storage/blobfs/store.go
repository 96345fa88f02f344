// Package blobfs implements file-based blob storage with atomic overwrites.
package blobfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/interfaces"
)

// Store provides file-per-key JSON blob storage. Writes go through a temp file
// and rename, so readers never observe partial content.
type Store struct {
	basePath string
	logger   *common.Logger
}

// NewStore creates a file blob store rooted at the given directory.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob store path %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("File blob store opened")
	return &Store{basePath: path, logger: logger}, nil
}

// GetObject returns the stored bytes for key, or interfaces.ErrNotFound.
func (s *Store) GetObject(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob '%s': %w", key, err)
	}
	return data, nil
}

// PutObject stores data under key atomically, overwriting any existing blob.
func (s *Store) PutObject(_ context.Context, key string, data []byte) error {
	target := s.filePath(key)

	tmpFile, err := os.CreateTemp(s.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// DeleteObject removes the blob for key. Missing keys are not an error.
func (s *Store) DeleteObject(_ context.Context, key string) error {
	if err := os.Remove(s.filePath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob '%s': %w", key, err)
	}
	return nil
}

// Close is a no-op for file-based storage.
func (s *Store) Close() error {
	return nil
}

func (s *Store) filePath(key string) string {
	return filepath.Join(s.basePath, sanitizeKey(key)+".json")
}

// sanitizeKey maps key characters that are unsafe in filenames.
func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

// Ensure Store implements BlobStore
var _ interfaces.BlobStore = (*Store)(nil)
