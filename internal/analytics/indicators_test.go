package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/models"
)

func seriesFromValues(values []float64) []models.SeriesPoint {
	points := make([]models.SeriesPoint, len(values))
	for i, v := range values {
		points[i] = models.SeriesPoint{T: float64(i), Value: v}
	}
	return points
}

func rampSeries(n int, start, step float64) []models.SeriesPoint {
	values := make([]float64, n)
	for i := range values {
		values[i] = start + step*float64(i)
	}
	return seriesFromValues(values)
}

func TestComputeIndicators_ShortSeriesAllNil(t *testing.T) {
	set := ComputeIndicators(seriesFromValues([]float64{1, 2, 3}))
	require.NotNil(t, set)
	assert.Nil(t, set.BB)
	assert.Nil(t, set.RSI)
	assert.Nil(t, set.MACD)
}

func TestComputeIndicators_MACDRequiresLongSeries(t *testing.T) {
	// 35 points seed the slow EMA but not the signal line.
	set := ComputeIndicators(rampSeries(35, 100, 1))
	require.NotNil(t, set.BB)
	require.NotNil(t, set.RSI)
	assert.Nil(t, set.MACD)

	set = ComputeIndicators(rampSeries(36, 100, 1))
	assert.NotNil(t, set.MACD)
}

func TestComputeBollinger_ConstantSeries(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 50
	}
	set := ComputeIndicators(seriesFromValues(values))
	require.NotNil(t, set.BB)

	// No variance: all three bands collapse onto the mean.
	for i := 0; i < bbPeriod-1; i++ {
		assert.True(t, set.BB.Middle[i].IsUnknown())
		assert.True(t, set.BB.Upper[i].IsUnknown())
		assert.True(t, set.BB.Lower[i].IsUnknown())
	}
	for i := bbPeriod - 1; i < len(values); i++ {
		assert.InDelta(t, 50, set.BB.Middle[i].Float64(), 1e-9)
		assert.InDelta(t, 50, set.BB.Upper[i].Float64(), 1e-9)
		assert.InDelta(t, 50, set.BB.Lower[i].Float64(), 1e-9)
	}
}

func TestComputeBollinger_MiddleIsTrailingSMA(t *testing.T) {
	series := rampSeries(40, 10, 2)
	set := ComputeIndicators(series)
	require.NotNil(t, set.BB)

	closes := models.SeriesValues(series)
	for i := bbPeriod - 1; i < len(closes); i++ {
		sum := 0.0
		for j := i - bbPeriod + 1; j <= i; j++ {
			sum += closes[j]
		}
		assert.InDelta(t, sum/bbPeriod, set.BB.Middle[i].Float64(), 1e-9)
		assert.Greater(t, set.BB.Upper[i].Float64(), set.BB.Middle[i].Float64())
		assert.Less(t, set.BB.Lower[i].Float64(), set.BB.Middle[i].Float64())
	}
}

func TestComputeRSI_Bounds(t *testing.T) {
	// A noisy but deterministic series.
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + 10*math.Sin(float64(i)*0.7)
	}
	set := ComputeIndicators(seriesFromValues(values))
	require.NotNil(t, set.RSI)
	require.Len(t, set.RSI, len(values))

	for i := 0; i < rsiPeriod; i++ {
		assert.True(t, set.RSI[i].IsUnknown(), "index %d should be undefined", i)
	}
	for i := rsiPeriod; i < len(values); i++ {
		v := set.RSI[i].Float64()
		require.False(t, math.IsNaN(v), "index %d", i)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestComputeRSI_MonotonicExtremes(t *testing.T) {
	rising := ComputeIndicators(rampSeries(30, 100, 1))
	require.NotNil(t, rising.RSI)
	assert.InDelta(t, 100, rising.RSI[rsiPeriod].Float64(), 1e-9)

	falling := ComputeIndicators(rampSeries(30, 100, -1))
	require.NotNil(t, falling.RSI)
	assert.InDelta(t, 0, falling.RSI[rsiPeriod].Float64(), 1e-9)
}

func TestComputeMACD_Alignment(t *testing.T) {
	values := make([]float64, 80)
	for i := range values {
		values[i] = 100 + 5*math.Sin(float64(i)*0.3) + 0.2*float64(i)
	}
	set := ComputeIndicators(seriesFromValues(values))
	require.NotNil(t, set.MACD)

	n := len(values)
	require.Len(t, set.MACD.MACD, n)
	require.Len(t, set.MACD.Signal, n)
	require.Len(t, set.MACD.Hist, n)

	// MACD line defined once the slow EMA is seeded.
	firstMACD := macdSlow - 1
	for i := 0; i < firstMACD; i++ {
		assert.True(t, set.MACD.MACD[i].IsUnknown())
	}
	assert.False(t, set.MACD.MACD[firstMACD].IsUnknown())

	// Signal defined 9 values later; histogram wherever both are defined.
	firstSignal := firstMACD + macdSignal - 1
	for i := firstMACD; i < firstSignal; i++ {
		assert.True(t, set.MACD.Signal[i].IsUnknown())
		assert.True(t, set.MACD.Hist[i].IsUnknown())
	}
	for i := firstSignal; i < n; i++ {
		require.False(t, set.MACD.Signal[i].IsUnknown(), "index %d", i)
		assert.InDelta(t,
			set.MACD.MACD[i].Float64()-set.MACD.Signal[i].Float64(),
			set.MACD.Hist[i].Float64(), 1e-9)
	}
}

func TestEMASeries_Seeding(t *testing.T) {
	closes := []float64{10, 20, 30, 40, 50}
	ema := emaSeries(closes, 3)

	assert.True(t, math.IsNaN(ema[0]))
	assert.True(t, math.IsNaN(ema[1]))
	assert.InDelta(t, 20, ema[2], 1e-9) // simple average of the first 3

	k := 2.0 / 4
	assert.InDelta(t, 40*k+20*(1-k), ema[3], 1e-9)
}
