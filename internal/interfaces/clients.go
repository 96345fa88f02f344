// Package interfaces defines service contracts for StockGraph
package interfaces

import (
	"context"

	"github.com/jmorrell/stockgraph/internal/models"
)

// PriceHistoryClient provides access to the external market-data provider.
type PriceHistoryClient interface {
	// GetHistory retrieves up to `days` calendar days of daily closing prices
	// for a ticker, oldest to newest. Null entries from the provider (gaps,
	// non-trading days) are dropped, never interpolated. The call is a pure
	// read: no caching happens at this layer.
	GetHistory(ctx context.Context, ticker string, days int) (models.PriceSeries, error)
}

// SentimentClient provides access to the AI sentiment provider. The scoring
// algorithm is opaque to this system: the provider returns a label plus
// confidence and the client passes it through.
type SentimentClient interface {
	AnalyzeSentiment(ctx context.Context, ticker string) (*models.StockSentiment, error)
}
