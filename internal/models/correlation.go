// Package models defines the core data types for StockGraph
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxTickerLength is the longest symbol accepted by input validation.
const MaxTickerLength = 10

// MinSeriesPoints is the minimum number of valid closing prices a series must
// exceed to be included in a correlation matrix. Series at or below this length
// carry too little signal.
const MinSeriesPoints = 10

// ErrInvalidInput marks malformed or insufficient ticker input. It is always
// surfaced to the caller before any I/O happens.
var ErrInvalidInput = errors.New("invalid input")

// PriceSeries holds daily closing prices for one ticker, oldest to newest.
// Gaps (non-trading days, null provider entries) are dropped, not interpolated,
// so the series may be shorter than the requested lookback window.
type PriceSeries struct {
	Ticker string    `json:"ticker"`
	Closes []float64 `json:"closes"`
}

// Valid reports whether the series has enough points to contribute to a matrix.
func (s PriceSeries) Valid() bool {
	return len(s.Closes) > MinSeriesPoints
}

// Edge is a single graph edge between two correlated stocks. Source always
// precedes Target in the result's stock ordering; the reverse edge is never
// emitted.
type Edge struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Correlation float64 `json:"correlation"`
}

// CorrelationResult is the unit persisted to and retrieved from the cache.
// Matrix is square, symmetric, indexed by position in Stocks, with an exact
// 1.0 diagonal.
type CorrelationResult struct {
	Stocks       []string    `json:"stocks"`
	Matrix       [][]float64 `json:"matrix"`
	Edges        []Edge      `json:"edges"`
	CalculatedAt time.Time   `json:"calculated_at"`
}

// CorrelationView is the response shape returned to callers: the result plus
// whether it was served from cache.
type CorrelationView struct {
	*CorrelationResult
	FromCache bool `json:"from_cache"`
}

// NormalizeTickers validates, uppercases, and de-duplicates a ticker list while
// preserving first-occurrence order. It returns ErrInvalidInput when fewer than
// two distinct tickers remain or any symbol fails the basic format check.
func NormalizeTickers(tickers []string) ([]string, error) {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))

	for _, t := range tickers {
		symbol := strings.ToUpper(strings.TrimSpace(t))
		if symbol == "" {
			return nil, fmt.Errorf("%w: empty ticker symbol", ErrInvalidInput)
		}
		if len(symbol) > MaxTickerLength {
			return nil, fmt.Errorf("%w: ticker '%s' exceeds %d characters", ErrInvalidInput, symbol, MaxTickerLength)
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		out = append(out, symbol)
	}

	if len(out) < 2 {
		return nil, fmt.Errorf("%w: at least 2 distinct tickers required, got %d", ErrInvalidInput, len(out))
	}

	return out, nil
}
