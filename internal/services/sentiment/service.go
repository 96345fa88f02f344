// Package sentiment orchestrates cached AI sentiment readings
package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/interfaces"
	"github.com/jmorrell/stockgraph/internal/models"
)

// KeyPrefix namespaces sentiment entries within the shared blob store.
const KeyPrefix = "sentiment:"

// Service implements SentimentService. Readings are cached per ticker with
// their own freshness window; a stale or missing entry triggers a fresh
// provider call.
type Service struct {
	client interfaces.SentimentClient
	store  interfaces.BlobStore
	logger *common.Logger
}

// NewService creates a sentiment service.
func NewService(client interfaces.SentimentClient, store interfaces.BlobStore, logger *common.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger,
	}
}

// GetSentiment returns the sentiment reading for a ticker, cached for the
// sentiment freshness window. Provider failures surface as errors; no mock
// reading is ever synthesized.
func (s *Service) GetSentiment(ctx context.Context, ticker string, forceRefresh bool) (*models.StockSentiment, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" || len(symbol) > models.MaxTickerLength {
		return nil, fmt.Errorf("%w: ticker '%s'", models.ErrInvalidInput, ticker)
	}
	if s.client == nil {
		return nil, fmt.Errorf("sentiment provider not configured")
	}

	key := KeyPrefix + symbol

	if !forceRefresh {
		if cached := s.readCached(ctx, key); cached != nil && common.IsFresh(cached.GeneratedAt, common.FreshnessSentiment) {
			return cached, nil
		}
	}

	reading, err := s.client.AnalyzeSentiment(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(reading); err == nil {
		if err := s.store.PutObject(ctx, key, data); err != nil {
			s.logger.Warn().Str("ticker", symbol).Err(err).Msg("Failed to cache sentiment")
		}
	}

	return reading, nil
}

// readCached loads a stored reading, treating any failure as a miss.
func (s *Service) readCached(ctx context.Context, key string) *models.StockSentiment {
	data, err := s.store.GetObject(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warn().Str("key", key).Err(err).Msg("Sentiment cache read failed")
		}
		return nil
	}
	var reading models.StockSentiment
	if err := json.Unmarshal(data, &reading); err != nil {
		s.logger.Warn().Str("key", key).Err(err).Msg("Sentiment cache entry malformed")
		return nil
	}
	return &reading
}

// Ensure Service implements SentimentService
var _ interfaces.SentimentService = (*Service)(nil)
