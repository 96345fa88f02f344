package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorrell/stockgraph/internal/app"
	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/models"
)

type stubCorrelationService struct {
	lastTickers []string
	lastForce   bool
	view        *models.CorrelationView
	err         error
}

func (s *stubCorrelationService) GetCorrelations(_ context.Context, tickers []string, forceRefresh bool) (*models.CorrelationView, error) {
	s.lastTickers = tickers
	s.lastForce = forceRefresh
	if s.err != nil {
		return nil, s.err
	}
	return s.view, nil
}

type stubSentimentService struct {
	reading *models.StockSentiment
	err     error
}

func (s *stubSentimentService) GetSentiment(_ context.Context, ticker string, _ bool) (*models.StockSentiment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.reading, nil
}

type stubPriceClient struct {
	series map[string]models.PriceSeries
}

func (s *stubPriceClient) GetHistory(_ context.Context, ticker string, _ int) (models.PriceSeries, error) {
	series, ok := s.series[ticker]
	if !ok {
		return models.PriceSeries{Ticker: ticker}, fmt.Errorf("no data for %s", ticker)
	}
	return series, nil
}

func testView() *models.CorrelationView {
	return &models.CorrelationView{
		CorrelationResult: &models.CorrelationResult{
			Stocks: []string{"AAPL", "MSFT"},
			Matrix: [][]float64{{1, 0.82}, {0.82, 1}},
			Edges: []models.Edge{
				{Source: "AAPL", Target: "MSFT", Correlation: 0.82},
			},
			CalculatedAt: time.Now(),
		},
		FromCache: true,
	}
}

func newTestServer(corrSvc *stubCorrelationService, sentSvc *stubSentimentService, prices *stubPriceClient) *Server {
	a := &app.App{
		Config:             common.NewDefaultConfig(),
		Logger:             common.NewSilentLogger(),
		CorrelationService: corrSvc,
		StartupTime:        time.Now(),
	}
	if sentSvc != nil {
		a.SentimentService = sentSvc
	}
	if prices != nil {
		a.PriceClient = prices
	}
	return NewServer(a)
}

func doRequest(srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubCorrelationService{}, nil, nil)

	rec := doRequest(srv, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleHealthMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubCorrelationService{}, nil, nil)

	rec := doRequest(srv, http.MethodPost, "/api/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleConfigRedactsSecrets(t *testing.T) {
	corrSvc := &stubCorrelationService{view: testView()}
	srv := newTestServer(corrSvc, nil, nil)
	srv.app.Config.Clients.MarketData.APIKey = "super-secret"

	rec := doRequest(srv, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "super-secret")
}

func TestHandleCorrelationsGet(t *testing.T) {
	corrSvc := &stubCorrelationService{view: testView()}
	srv := newTestServer(corrSvc, nil, nil)

	rec := doRequest(srv, http.MethodGet, "/api/correlations?tickers=AAPL,MSFT", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"AAPL", "MSFT"}, corrSvc.lastTickers)
	assert.False(t, corrSvc.lastForce)

	var view models.CorrelationView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.FromCache)
	assert.Len(t, view.Edges, 1)
}

func TestHandleCorrelationsGetForceRefresh(t *testing.T) {
	corrSvc := &stubCorrelationService{view: testView()}
	srv := newTestServer(corrSvc, nil, nil)

	rec := doRequest(srv, http.MethodGet, "/api/correlations?tickers=AAPL,MSFT&refresh=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, corrSvc.lastForce)
}

func TestHandleCorrelationsDefaultUniverse(t *testing.T) {
	corrSvc := &stubCorrelationService{view: testView()}
	srv := newTestServer(corrSvc, nil, nil)

	rec := doRequest(srv, http.MethodGet, "/api/correlations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, srv.app.Config.Correlation.Tickers, corrSvc.lastTickers,
		"no tickers falls back to the configured universe")
}

func TestHandleCorrelationsPost(t *testing.T) {
	corrSvc := &stubCorrelationService{view: testView()}
	srv := newTestServer(corrSvc, nil, nil)

	body := []byte(`{"tickers": ["AAPL", "MSFT"], "force_refresh": true}`)
	rec := doRequest(srv, http.MethodPost, "/api/correlations", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"AAPL", "MSFT"}, corrSvc.lastTickers)
	assert.True(t, corrSvc.lastForce)
}

func TestHandleCorrelationsInvalidInput(t *testing.T) {
	corrSvc := &stubCorrelationService{err: fmt.Errorf("%w: at least 2 distinct tickers required", models.ErrInvalidInput)}
	srv := newTestServer(corrSvc, nil, nil)

	rec := doRequest(srv, http.MethodGet, "/api/correlations?tickers=AAPL", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCorrelationsServiceError(t *testing.T) {
	corrSvc := &stubCorrelationService{err: fmt.Errorf("storage exploded")}
	srv := newTestServer(corrSvc, nil, nil)

	rec := doRequest(srv, http.MethodGet, "/api/correlations?tickers=AAPL,MSFT", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleCorrelationsMalformedBody(t *testing.T) {
	corrSvc := &stubCorrelationService{view: testView()}
	srv := newTestServer(corrSvc, nil, nil)

	rec := doRequest(srv, http.MethodPost, "/api/correlations", []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCorrelationChart(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	prices := &stubPriceClient{series: map[string]models.PriceSeries{
		"AAPL": {Ticker: "AAPL", Closes: closes},
		"MSFT": {Ticker: "MSFT", Closes: closes},
	}}
	srv := newTestServer(&stubCorrelationService{}, nil, prices)

	rec := doRequest(srv, http.MethodGet, "/api/correlations/chart?tickers=AAPL,MSFT", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHandleCorrelationChartRequiresPair(t *testing.T) {
	srv := newTestServer(&stubCorrelationService{}, nil, &stubPriceClient{})

	rec := doRequest(srv, http.MethodGet, "/api/correlations/chart?tickers=AAPL", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/api/correlations/chart?tickers=AAPL,MSFT,GOOGL", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCorrelationChartProviderFailure(t *testing.T) {
	srv := newTestServer(&stubCorrelationService{}, nil, &stubPriceClient{})

	rec := doRequest(srv, http.MethodGet, "/api/correlations/chart?tickers=AAPL,MSFT", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleSentiment(t *testing.T) {
	sentSvc := &stubSentimentService{reading: &models.StockSentiment{
		Ticker:      "AAPL",
		Label:       models.SentimentPositive,
		Confidence:  0.9,
		Summary:     "Strong quarter.",
		GeneratedAt: time.Now(),
	}}
	srv := newTestServer(&stubCorrelationService{}, sentSvc, nil)

	rec := doRequest(srv, http.MethodGet, "/api/sentiment/AAPL", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reading models.StockSentiment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reading))
	assert.Equal(t, "AAPL", reading.Ticker)
	assert.Equal(t, models.SentimentPositive, reading.Label)
}

func TestHandleSentimentNotConfigured(t *testing.T) {
	srv := newTestServer(&stubCorrelationService{}, nil, nil)

	rec := doRequest(srv, http.MethodGet, "/api/sentiment/AAPL", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleSentimentMissingTicker(t *testing.T) {
	sentSvc := &stubSentimentService{}
	srv := newTestServer(&stubCorrelationService{}, sentSvc, nil)

	rec := doRequest(srv, http.MethodGet, "/api/sentiment/", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSentimentProviderFailure(t *testing.T) {
	sentSvc := &stubSentimentService{err: fmt.Errorf("model unavailable")}
	srv := newTestServer(&stubCorrelationService{}, sentSvc, nil)

	rec := doRequest(srv, http.MethodGet, "/api/sentiment/AAPL", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(&stubCorrelationService{}, nil, nil)

	rec := doRequest(srv, http.MethodGet, "/api/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflights(t *testing.T) {
	srv := newTestServer(&stubCorrelationService{}, nil, nil)

	rec := doRequest(srv, http.MethodOptions, "/api/correlations", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
