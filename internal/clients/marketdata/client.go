// Package marketdata provides a client for the historical-prices provider API
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/interfaces"
	"github.com/jmorrell/stockgraph/internal/models"
)

const (
	DefaultTimeout   = 8 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the PriceHistoryClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the per-request HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new market data client
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a provider API error
type APIError struct {
	StatusCode int
	Message    string
	Ticker     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("market data API error for %s: %s (status: %d)", e.Ticker, e.Message, e.StatusCode)
}

// historyResponse is the provider's wire format. Null close prices mark gaps
// (non-trading days) and are dropped by the caller-facing conversion.
type historyResponse struct {
	ClosePrices []*float64 `json:"closePrices"`
}

// GetHistory retrieves up to `days` calendar days of daily closing prices for
// a ticker, oldest to newest. The call is rate-limited and bounded by the
// client's per-request timeout so one slow ticker cannot stall a batch.
func (c *Client) GetHistory(ctx context.Context, ticker string, days int) (models.PriceSeries, error) {
	series := models.PriceSeries{Ticker: ticker}

	if err := c.limiter.Wait(ctx); err != nil {
		return series, fmt.Errorf("rate limit wait: %w", err)
	}

	now := time.Now()
	params := url.Values{}
	params.Set("ticker", ticker)
	params.Set("startDate", now.AddDate(0, 0, -days).Format("2006-01-02"))
	params.Set("endDate", now.Format("2006-01-02"))
	params.Set("interval", "daily")
	if c.apiKey != "" {
		params.Set("api_token", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s/historical-prices?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return series, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("ticker", ticker).Int("days", days).Msg("Price history request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return series, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return series, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Ticker:     ticker,
		}
	}

	var history historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return series, fmt.Errorf("failed to decode response for %s: %w", ticker, err)
	}
	if history.ClosePrices == nil {
		return series, fmt.Errorf("response for %s has no recognizable price field", ticker)
	}

	closes := make([]float64, 0, len(history.ClosePrices))
	for _, p := range history.ClosePrices {
		if p != nil {
			closes = append(closes, *p)
		}
	}
	series.Closes = closes

	return series, nil
}

// Ensure Client implements PriceHistoryClient
var _ interfaces.PriceHistoryClient = (*Client)(nil)
