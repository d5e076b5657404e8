package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/models"
)

func TestComputeSeriesMetrics_TooShort(t *testing.T) {
	for _, series := range [][]models.SeriesPoint{
		nil,
		seriesFromValues([]float64{100}),
	} {
		m := ComputeSeriesMetrics(series)
		assert.True(t, m.AnnualizedReturn.IsUnknown())
		assert.True(t, m.Volatility.IsUnknown())
		assert.True(t, m.Sharpe.IsUnknown())
		assert.True(t, m.MaxDrawdown.IsUnknown())
	}
}

func TestComputeSeriesMetrics_NonPositiveEndpoints(t *testing.T) {
	m := ComputeSeriesMetrics(seriesFromValues([]float64{0, 100, 110}))
	assert.True(t, m.AnnualizedReturn.IsUnknown())

	m = ComputeSeriesMetrics(seriesFromValues([]float64{100, 110, -5}))
	assert.True(t, m.Volatility.IsUnknown())
}

func TestComputeSeriesMetrics_MonotonicRiseHasZeroDrawdown(t *testing.T) {
	m := ComputeSeriesMetrics(rampSeries(50, 100, 1))

	assert.Equal(t, 0.0, m.MaxDrawdown.Float64())
	assert.Greater(t, m.AnnualizedReturn.Float64(), 0.0)
	assert.Greater(t, m.Volatility.Float64(), 0.0)
	assert.Greater(t, m.Sharpe.Float64(), 0.0)
}

func TestComputeSeriesMetrics_ConstantSeries(t *testing.T) {
	m := ComputeSeriesMetrics(seriesFromValues([]float64{100, 100, 100, 100}))

	// Zero returns: no growth, no volatility, Sharpe undefined.
	assert.InDelta(t, 0, m.AnnualizedReturn.Float64(), 1e-12)
	assert.InDelta(t, 0, m.Volatility.Float64(), 1e-12)
	assert.True(t, m.Sharpe.IsUnknown())
	assert.Equal(t, 0.0, m.MaxDrawdown.Float64())
}

func TestComputeSeriesMetrics_DrawdownDepth(t *testing.T) {
	// Peak 200, trough 100: a 50% peak-to-trough loss.
	m := ComputeSeriesMetrics(seriesFromValues([]float64{100, 200, 100, 150}))

	assert.InDelta(t, -0.5, m.MaxDrawdown.Float64(), 1e-9)
	assert.LessOrEqual(t, m.MaxDrawdown.Float64(), 0.0)
}

func TestComputeSeriesMetrics_AnnualizationConvention(t *testing.T) {
	// Constant +1% daily step.
	m := ComputeSeriesMetrics(seriesFromValues([]float64{100, 101, 102.01}))

	want := math.Pow(1.01, tradingDaysPerYear) - 1
	require.False(t, m.AnnualizedReturn.IsUnknown())
	assert.InDelta(t, want, m.AnnualizedReturn.Float64(), 1e-6)
}

func TestDailyVolatility(t *testing.T) {
	assert.Equal(t, 0.0, DailyVolatility(models.Unknown()))

	annual := models.NullFloat(0.5)
	assert.InDelta(t, 0.5/math.Sqrt(252), DailyVolatility(annual), 1e-12)
}

func TestValueAtRisk(t *testing.T) {
	dailyVol := 0.02
	total := 10000.0

	oneDay := ValueAtRisk(total, dailyVol, 1)
	assert.InDelta(t, total*dailyVol*1.65, oneDay, 1e-9)

	fiveDay := ValueAtRisk(total, dailyVol, 5)
	assert.InDelta(t, total*dailyVol*math.Sqrt(5)*1.65, fiveDay, 1e-9)

	// Horizon floors at one day.
	assert.Equal(t, oneDay, ValueAtRisk(total, dailyVol, 0))
}
