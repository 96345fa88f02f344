// Package badger provides a BadgerHold-backed blob store.
package badger

import (
	"context"
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/interfaces"
)

// BlobEntry represents a key-value pair stored in BadgerDB.
type BlobEntry struct {
	Key   string `badgerhold:"key"`
	Value []byte
}

// Store wraps a BadgerHold database as a BlobStore.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens a BadgerHold store at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold blob store opened")

	return &Store{db: db, logger: logger}, nil
}

// GetObject returns the stored bytes for key, or interfaces.ErrNotFound.
func (s *Store) GetObject(_ context.Context, key string) ([]byte, error) {
	var entry BlobEntry
	if err := s.db.Get(key, &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blob '%s': %w", key, err)
	}
	return entry.Value, nil
}

// PutObject stores data under key, overwriting any existing entry.
func (s *Store) PutObject(_ context.Context, key string, data []byte) error {
	entry := BlobEntry{Key: key, Value: data}
	if err := s.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to put blob '%s': %w", key, err)
	}
	return nil
}

// DeleteObject removes the entry for key. Missing keys are not an error.
func (s *Store) DeleteObject(_ context.Context, key string) error {
	err := s.db.Delete(key, BlobEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete blob '%s': %w", key, err)
	}
	return nil
}

// Close closes the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure Store implements BlobStore
var _ interfaces.BlobStore = (*Store)(nil)
