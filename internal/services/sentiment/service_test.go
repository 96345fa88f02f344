package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/interfaces"
	"github.com/jmorrell/stockgraph/internal/models"
)

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) GetObject(_ context.Context, key string) ([]byte, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return data, nil
}

func (m *memStore) PutObject(_ context.Context, key string, data []byte) error {
	m.data[key] = data
	return nil
}

func (m *memStore) DeleteObject(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memStore) Close() error { return nil }

type mockSentimentClient struct {
	calls int
	err   error
}

func (m *mockSentimentClient) AnalyzeSentiment(_ context.Context, ticker string) (*models.StockSentiment, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &models.StockSentiment{
		Ticker:      ticker,
		Label:       models.SentimentPositive,
		Confidence:  0.85,
		Summary:     "Recent coverage is optimistic.",
		GeneratedAt: time.Now(),
	}, nil
}

func TestGetSentimentCachesReading(t *testing.T) {
	store := newMemStore()
	client := &mockSentimentClient{}
	svc := NewService(client, store, common.NewSilentLogger())
	ctx := context.Background()

	first, err := svc.GetSentiment(ctx, "aapl", false)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", first.Ticker)
	assert.Equal(t, 1, client.calls)
	assert.Contains(t, store.data, "sentiment:AAPL")

	second, err := svc.GetSentiment(ctx, "AAPL", false)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls, "fresh reading must be served from cache")
	assert.Equal(t, first.Label, second.Label)
}

func TestGetSentimentForceRefresh(t *testing.T) {
	store := newMemStore()
	client := &mockSentimentClient{}
	svc := NewService(client, store, common.NewSilentLogger())
	ctx := context.Background()

	_, err := svc.GetSentiment(ctx, "AAPL", false)
	require.NoError(t, err)

	_, err = svc.GetSentiment(ctx, "AAPL", true)
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
}

func TestGetSentimentStaleEntryRefetches(t *testing.T) {
	store := newMemStore()
	client := &mockSentimentClient{}
	svc := NewService(client, store, common.NewSilentLogger())
	ctx := context.Background()

	stale := &models.StockSentiment{
		Ticker:      "AAPL",
		Label:       models.SentimentNegative,
		Confidence:  0.5,
		GeneratedAt: time.Now().Add(-7 * time.Hour),
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	store.data["sentiment:AAPL"] = data

	reading, err := svc.GetSentiment(ctx, "AAPL", false)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, models.SentimentPositive, reading.Label)
}

func TestGetSentimentInvalidTicker(t *testing.T) {
	svc := NewService(&mockSentimentClient{}, newMemStore(), common.NewSilentLogger())

	for _, ticker := range []string{"", "   ", "WAYTOOLONGTICKER"} {
		_, err := svc.GetSentiment(context.Background(), ticker, false)
		assert.ErrorIs(t, err, models.ErrInvalidInput, "ticker %q", ticker)
	}
}

func TestGetSentimentProviderFailureSurfaces(t *testing.T) {
	client := &mockSentimentClient{err: fmt.Errorf("model unavailable")}
	svc := NewService(client, newMemStore(), common.NewSilentLogger())

	_, err := svc.GetSentiment(context.Background(), "AAPL", false)
	assert.Error(t, err, "provider failures must surface, never a synthesized reading")
}

func TestGetSentimentMalformedCacheEntryRefetches(t *testing.T) {
	store := newMemStore()
	store.data["sentiment:AAPL"] = []byte("{not json")
	client := &mockSentimentClient{}
	svc := NewService(client, store, common.NewSilentLogger())

	reading, err := svc.GetSentiment(context.Background(), "AAPL", false)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "AAPL", reading.Ticker)
}
