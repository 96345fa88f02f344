// Package render produces server-side PNG charts for price comparisons
package render

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jmorrell/stockgraph/internal/corr"
	"github.com/jmorrell/stockgraph/internal/models"
)

// PairChart renders a PNG line chart comparing two tickers' price series,
// normalized to percent change from each series' first aligned point so the
// two lines share a scale. Series are trailing-aligned the same way the
// correlation engine aligns them.
func PairChart(a, b models.PriceSeries) ([]byte, error) {
	closesA, closesB := corr.TrailingAlign(a.Closes, b.Closes)
	if len(closesA) < 2 {
		return nil, fmt.Errorf("need at least 2 aligned data points, got %d", len(closesA))
	}

	xValues := make([]float64, len(closesA))
	yA := normalize(closesA)
	yB := normalize(closesB)
	for i := range xValues {
		xValues[i] = float64(i)
	}

	seriesA := chart.ContinuousSeries{
		Name: a.Ticker,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yA,
	}

	seriesB := chart.ContinuousSeries{
		Name: b.Ticker,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("dc2626"), // red-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yB,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s vs %s", a.Ticker, b.Ticker),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("d%d", int(f))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%+.1f%%", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			seriesA,
			seriesB,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// normalize converts a price series to percent change from its first point.
func normalize(closes []float64) []float64 {
	out := make([]float64, len(closes))
	base := closes[0]
	if base == 0 {
		return out
	}
	for i, c := range closes {
		out[i] = (c - base) / base * 100
	}
	return out
}
