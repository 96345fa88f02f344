// Package interfaces defines service contracts for StockGraph
package interfaces

import (
	"context"

	"github.com/jmorrell/stockgraph/internal/models"
)

// MatrixComputer computes a correlation result for a set of tickers. Per-ticker
// fetch failures are absorbed (the ticker is excluded); a degenerate 0x0 or 1x1
// result is returned rather than an error when too few series survive.
type MatrixComputer interface {
	ComputeMatrix(ctx context.Context, tickers []string) (*models.CorrelationResult, error)
}

// CorrelationService is the sole entry point for correlation requests.
type CorrelationService interface {
	// GetCorrelations validates the ticker list, consults the result cache,
	// computes a fresh matrix when the cached entry is missing or stale, and
	// writes the fresh result through. forceRefresh bypasses the freshness
	// check but still updates the cache for future reads.
	GetCorrelations(ctx context.Context, tickers []string, forceRefresh bool) (*models.CorrelationView, error)
}

// SentimentService produces cached AI sentiment readings per ticker.
type SentimentService interface {
	GetSentiment(ctx context.Context, ticker string, forceRefresh bool) (*models.StockSentiment, error)
}
