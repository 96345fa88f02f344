package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorrell/stockgraph/internal/models"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func linearSeries(ticker string, start float64, n int) models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)
	}
	return models.PriceSeries{Ticker: ticker, Closes: closes}
}

func TestPairChart(t *testing.T) {
	png, err := PairChart(linearSeries("AAPL", 150, 30), linearSeries("MSFT", 300, 30))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "output must be a PNG")
}

func TestPairChartUnevenLengths(t *testing.T) {
	png, err := PairChart(linearSeries("AAPL", 150, 40), linearSeries("IPO", 20, 12))
	require.NoError(t, err, "series of different lengths are trailing-aligned")
	assert.NotEmpty(t, png)
}

func TestPairChartTooFewPoints(t *testing.T) {
	_, err := PairChart(linearSeries("AAPL", 150, 1), linearSeries("MSFT", 300, 30))
	assert.Error(t, err)

	_, err = PairChart(models.PriceSeries{Ticker: "AAPL"}, linearSeries("MSFT", 300, 30))
	assert.Error(t, err)
}
