package corr

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/interfaces"
	"github.com/jmorrell/stockgraph/internal/models"
)

// DefaultThreshold is the edge-inclusion cutoff used when none is configured.
const DefaultThreshold = 0.6

// DefaultLookbackDays is the price history window used when none is configured.
const DefaultLookbackDays = 60

// Engine fetches price histories and computes thresholded correlation matrices.
type Engine struct {
	client       interfaces.PriceHistoryClient
	logger       *common.Logger
	lookbackDays int
	threshold    float64
}

// NewEngine creates a correlation engine. lookbackDays and threshold fall back
// to defaults when zero-valued.
func NewEngine(client interfaces.PriceHistoryClient, logger *common.Logger, lookbackDays int, threshold float64) *Engine {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Engine{
		client:       client,
		logger:       logger,
		lookbackDays: lookbackDays,
		threshold:    threshold,
	}
}

// Threshold returns the configured edge-inclusion cutoff.
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// ComputeMatrix fetches price series for every ticker concurrently, filters out
// series with too few points, and builds the pairwise Pearson matrix plus the
// thresholded edge list.
//
// A failed or timed-out fetch excludes that ticker and never aborts the others.
// Stock ordering follows input order after filtering, which keeps matrix
// indices deterministic. With fewer than 2 surviving series the result is
// degenerate (0x0 or 1x1) rather than an error: partial data beats total
// failure for graph display.
func (e *Engine) ComputeMatrix(ctx context.Context, tickers []string) (*models.CorrelationResult, error) {
	series := e.fetchAll(ctx, tickers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	valid := make([]models.PriceSeries, 0, len(series))
	for _, s := range series {
		if s.Valid() {
			valid = append(valid, s)
		} else {
			e.logger.Debug().Str("ticker", s.Ticker).Int("points", len(s.Closes)).Msg("Series excluded, insufficient data")
		}
	}

	n := len(valid)
	stocks := make([]string, n)
	matrix := make([][]float64, n)
	for i := range matrix {
		stocks[i] = valid[i].Ticker
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}

	edges := make([]models.Edge, 0)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := TrailingAlign(valid[i].Closes, valid[j].Closes)
			r := Pearson(a, b)
			if math.IsNaN(r) {
				// Undefined correlation (constant series). Store 0 so the
				// matrix stays JSON-serializable; no edge is emitted.
				matrix[i][j], matrix[j][i] = 0, 0
				continue
			}
			matrix[i][j], matrix[j][i] = r, r
			if r > e.threshold {
				edges = append(edges, models.Edge{
					Source:      stocks[i],
					Target:      stocks[j],
					Correlation: round2(r),
				})
			}
		}
	}

	return &models.CorrelationResult{
		Stocks:       stocks,
		Matrix:       matrix,
		Edges:        edges,
		CalculatedAt: time.Now(),
	}, nil
}

// fetchAll issues all per-ticker history fetches concurrently and collects
// them in input order. A failure maps to an empty series for that slot.
func (e *Engine) fetchAll(ctx context.Context, tickers []string) []models.PriceSeries {
	series := make([]models.PriceSeries, len(tickers))

	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			s, err := e.client.GetHistory(ctx, ticker, e.lookbackDays)
			if err != nil {
				e.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to fetch price history")
				series[i] = models.PriceSeries{Ticker: ticker}
				return
			}
			series[i] = s
		}(i, ticker)
	}
	wg.Wait()

	return series
}

// Ensure Engine implements MatrixComputer
var _ interfaces.MatrixComputer = (*Engine)(nil)
