package sakura

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAndStd(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.Equal(t, 5.0, mean(xs))
	assert.InDelta(t, 2.0, populationStd(xs), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), sampleStd(xs), 1e-12)

	assert.Equal(t, 0.0, mean(nil))
	assert.Equal(t, 0.0, populationStd(nil))
	assert.Equal(t, 0.0, sampleStd([]float64{3}))
}

func TestZScore_ZeroStd(t *testing.T) {
	assert.Equal(t, 0.0, zScore(10, 3, 0))
	assert.Equal(t, 2.0, zScore(7, 3, 2))
}

func TestPercentileOfScore_Inclusive(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.Equal(t, 75.0, percentileOfScore(xs, 3))
	assert.Equal(t, 100.0, percentileOfScore(xs, 4))
	assert.Equal(t, 0.0, percentileOfScore(xs, 0.5))
	assert.Equal(t, 0.0, percentileOfScore(nil, 3))
}

func TestPercentileOfScore_TiesCountFully(t *testing.T) {
	xs := []float64{1, 2, 2, 3}
	assert.Equal(t, 75.0, percentileOfScore(xs, 2))
	assert.Equal(t, 100.0, percentileOfScore([]float64{5, 5, 5}, 5))
	assert.Equal(t, 25.0, percentileOfScore(xs, 1.5))
}

func TestLinearFit(t *testing.T) {
	slope, intercept, ok := linearFit([]float64{1, 2, 3}, []float64{3, 5, 7})
	assert.True(t, ok)
	assert.InDelta(t, 2.0, slope, 1e-12)
	assert.InDelta(t, 1.0, intercept, 1e-12)

	_, _, ok = linearFit([]float64{4, 4}, []float64{1, 2})
	assert.False(t, ok)
	_, _, ok = linearFit([]float64{4}, []float64{1})
	assert.False(t, ok)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.2))
	assert.Equal(t, 1.0, clamp01(1.7))
	assert.Equal(t, 0.0, clamp01(math.NaN()))
	assert.Equal(t, 0.4, clamp01(0.4))
}

//Personal.AI order the ending
