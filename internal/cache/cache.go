// Package cache persists correlation results keyed by canonical ticker set
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/interfaces"
	"github.com/jmorrell/stockgraph/internal/models"
)

// KeyPrefix namespaces correlation entries within the shared blob store.
const KeyPrefix = "correlations:"

// CanonicalKey derives the cache key for a ticker set: tickers sorted
// ascending and joined with a comma under the correlation prefix. Two requests
// naming the same tickers in any order resolve to the same key. The cache does
// not de-duplicate; callers must pass a de-duplicated list.
func CanonicalKey(tickers []string) string {
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)
	return KeyPrefix + strings.Join(sorted, ",")
}

// ResultCache stores correlation results as JSON blobs. Entries are never
// explicitly deleted; a later write for the same key overwrites the earlier
// one. Freshness is the caller's concern, checked via common.IsFresh against
// the entry's CalculatedAt.
type ResultCache struct {
	store  interfaces.BlobStore
	logger *common.Logger
}

// NewResultCache creates a cache over the given blob store.
func NewResultCache(store interfaces.BlobStore, logger *common.Logger) *ResultCache {
	return &ResultCache{store: store, logger: logger}
}

// Get retrieves the cached result for key. A missing key returns (nil, nil);
// any other failure, including a malformed stored payload, returns an error.
func (c *ResultCache) Get(ctx context.Context, key string) (*models.CorrelationResult, error) {
	data, err := c.store.GetObject(ctx, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache read for '%s' failed: %w", key, err)
	}

	var result models.CorrelationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("cache entry '%s' is malformed: %w", key, err)
	}

	return &result, nil
}

// Put stores the result under key, overwriting unconditionally. No optimistic
// locking: last writer wins.
func (c *ResultCache) Put(ctx context.Context, key string, result *models.CorrelationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result for '%s': %w", key, err)
	}
	if err := c.store.PutObject(ctx, key, data); err != nil {
		return fmt.Errorf("cache write for '%s' failed: %w", key, err)
	}
	c.logger.Debug().Str("key", key).Int("stocks", len(result.Stocks)).Msg("Correlation result cached")
	return nil
}
