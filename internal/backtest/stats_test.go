package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCurveStats_TooShort(t *testing.T) {
	assert.Equal(t, curveStats{}, computeCurveStats(nil))
	assert.Equal(t, curveStats{}, computeCurveStats([]float64{10000}))
}

func TestComputeCurveStats_FlatCurve(t *testing.T) {
	stats := computeCurveStats([]float64{10000, 10000, 10000})

	// No volatility, no downside, no drawdown.
	assert.Zero(t, stats.Sharpe)
	assert.Zero(t, stats.Sortino)
	assert.Zero(t, stats.MaxDrawdown)
}

func TestComputeCurveStats_MonotonicRise(t *testing.T) {
	curve := []float64{10000, 10100, 10200, 10300, 10400}
	stats := computeCurveStats(curve)

	assert.Zero(t, stats.MaxDrawdown)
	assert.Greater(t, stats.Sharpe, 0.0)
	// No negative returns: downside deviation undefined, Sortino stays zero.
	assert.Zero(t, stats.Sortino)
}

func TestComputeCurveStats_DrawdownIsPositiveFraction(t *testing.T) {
	// Peak 12000, trough 9000: 25% drawdown.
	stats := computeCurveStats([]float64{10000, 12000, 9000, 11000})

	assert.InDelta(t, 0.25, stats.MaxDrawdown, 1e-9)
	assert.GreaterOrEqual(t, stats.MaxDrawdown, 0.0)
}

func TestComputeCurveStats_SortinoUsesDownsideOnly(t *testing.T) {
	curve := []float64{10000, 11000, 10500, 11500, 11000, 12000}
	stats := computeCurveStats(curve)

	assert.NotZero(t, stats.Sortino)
	assert.False(t, math.IsNaN(stats.Sortino))
	assert.False(t, math.IsNaN(stats.Sharpe))

	// Downside deviation is never larger than full volatility, so for a
	// net-positive curve Sortino should not fall below Sharpe.
	assert.GreaterOrEqual(t, stats.Sortino, stats.Sharpe)
}
