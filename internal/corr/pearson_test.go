package corr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPearson(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
	}{
		{
			name:     "perfect positive correlation",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{2, 4, 6, 8, 10},
			expected: 1.0,
		},
		{
			name:     "perfect negative correlation",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{10, 8, 6, 4, 2},
			expected: -1.0,
		},
		{
			name:     "shifted series still perfectly correlated",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{101, 102, 103, 104, 105},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Pearson(tt.a, tt.b)
			assert.InDelta(t, tt.expected, result, 1e-9)
		})
	}
}

func TestPearsonKnownValue(t *testing.T) {
	// Hand-computed: cov=10, varA=10, varB=14.8, r = 10/sqrt(148) ≈ 0.8220
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 1, 4, 3, 6}
	result := Pearson(a, b)
	assert.InDelta(t, 0.8220, result, 0.001)
}

func TestPearsonUndefined(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
	}{
		{
			name: "constant first series",
			a:    []float64{5, 5, 5, 5},
			b:    []float64{1, 2, 3, 4},
		},
		{
			name: "constant second series",
			a:    []float64{1, 2, 3, 4},
			b:    []float64{7, 7, 7, 7},
		},
		{
			name: "empty series",
			a:    []float64{},
			b:    []float64{},
		},
		{
			name: "mismatched lengths",
			a:    []float64{1, 2, 3},
			b:    []float64{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Pearson(tt.a, tt.b)
			assert.True(t, math.IsNaN(result))
		})
	}
}

func TestPearsonBounds(t *testing.T) {
	a := []float64{3.1, 1.7, 4.2, 2.9, 5.5, 0.8, 3.3}
	b := []float64{2.2, 4.1, 1.9, 3.7, 0.6, 5.0, 2.8}
	result := Pearson(a, b)
	assert.GreaterOrEqual(t, result, -1.0)
	assert.LessOrEqual(t, result, 1.0)
}

func TestTrailingAlign(t *testing.T) {
	tests := []struct {
		name      string
		a         []float64
		b         []float64
		expectedA []float64
		expectedB []float64
	}{
		{
			name:      "equal lengths untouched",
			a:         []float64{1, 2, 3},
			b:         []float64{4, 5, 6},
			expectedA: []float64{1, 2, 3},
			expectedB: []float64{4, 5, 6},
		},
		{
			name:      "longer first series loses oldest points",
			a:         []float64{1, 2, 3, 4, 5},
			b:         []float64{7, 8, 9},
			expectedA: []float64{3, 4, 5},
			expectedB: []float64{7, 8, 9},
		},
		{
			name:      "longer second series loses oldest points",
			a:         []float64{1, 2},
			b:         []float64{7, 8, 9, 10},
			expectedA: []float64{1, 2},
			expectedB: []float64{9, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotA, gotB := TrailingAlign(tt.a, tt.b)
			assert.Equal(t, tt.expectedA, gotA)
			assert.Equal(t, tt.expectedB, gotB)
		})
	}
}
