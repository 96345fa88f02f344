// Package correlation orchestrates cache-aware correlation computation
package correlation

import (
	"context"
	"time"

	"github.com/jmorrell/stockgraph/internal/cache"
	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/interfaces"
	"github.com/jmorrell/stockgraph/internal/models"
)

// Service implements CorrelationService. Per request the flow is:
// validate → check cache → (fresh hit | compute) → write cache → respond.
// Concurrent identical requests may both miss and both recompute; the last
// cache write wins, which is acceptable for this workload.
type Service struct {
	cache    *cache.ResultCache
	computer interfaces.MatrixComputer
	logger   *common.Logger
	maxAge   time.Duration
}

// NewService creates a correlation service. maxAge falls back to the default
// freshness window when zero-valued.
func NewService(resultCache *cache.ResultCache, computer interfaces.MatrixComputer, logger *common.Logger, maxAge time.Duration) *Service {
	if maxAge <= 0 {
		maxAge = common.FreshnessCorrelations
	}
	return &Service{
		cache:    resultCache,
		computer: computer,
		logger:   logger,
		maxAge:   maxAge,
	}
}

// GetCorrelations returns the correlation result for a ticker set, served from
// cache when a fresh entry exists. forceRefresh skips the cache read entirely
// but still writes the fresh result through for future reads.
func (s *Service) GetCorrelations(ctx context.Context, tickers []string, forceRefresh bool) (*models.CorrelationView, error) {
	normalized, err := models.NormalizeTickers(tickers)
	if err != nil {
		return nil, err
	}

	key := cache.CanonicalKey(normalized)

	if !forceRefresh {
		entry, err := s.cache.Get(ctx, key)
		if err != nil {
			// Read failure degrades to a miss
			s.logger.Warn().Str("key", key).Err(err).Msg("Cache read failed, recomputing")
		} else if entry != nil && common.IsFresh(entry.CalculatedAt, s.maxAge) {
			s.logger.Debug().Str("key", key).Time("calculated_at", entry.CalculatedAt).Msg("Serving cached correlations")
			return &models.CorrelationView{CorrelationResult: entry, FromCache: true}, nil
		}
	}

	result, err := s.computer.ComputeMatrix(ctx, normalized)
	if err != nil {
		return nil, err
	}

	// Write failure must not prevent returning the fresh result
	if err := s.cache.Put(ctx, key, result); err != nil {
		s.logger.Warn().Str("key", key).Err(err).Msg("Cache write failed")
	}

	return &models.CorrelationView{CorrelationResult: result, FromCache: false}, nil
}

// Ensure Service implements CorrelationService
var _ interfaces.CorrelationService = (*Service)(nil)
