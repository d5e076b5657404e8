package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/models"
)

func TestSeededRandom_Deterministic(t *testing.T) {
	for _, seed := range []float64{0, 1, 42, 12345.0} {
		a := SeededRandom(seed)
		b := SeededRandom(seed)
		assert.Equal(t, a, b)
		assert.GreaterOrEqual(t, a, 0.0)
		assert.Less(t, a, 1.0)
	}

	assert.NotEqual(t, SeededRandom(1), SeededRandom(2))
}

func TestGenerateSyntheticSeries_Shape(t *testing.T) {
	base := 25000.0
	series := GenerateSyntheticSeries(base, 100, models.Timeframe30d)
	require.Len(t, series, 100)

	// Last point anchors exactly to the base value.
	assert.Equal(t, base, series[len(series)-1].Value)

	// Values stay above the walk floor and t spans [0,1] monotonically.
	for i, p := range series {
		assert.GreaterOrEqual(t, p.Value, base*0.4)
		if i > 0 {
			assert.Greater(t, p.T, series[i-1].T)
		}
	}
	assert.Equal(t, 0.0, series[0].T)
	assert.Equal(t, 1.0, series[len(series)-1].T)
}

func TestGenerateSyntheticSeries_Deterministic(t *testing.T) {
	a := GenerateSyntheticSeries(1234.56, 60, models.Timeframe24h)
	b := GenerateSyntheticSeries(1234.56, 60, models.Timeframe24h)
	assert.Equal(t, a, b)

	// A different base yields a different walk.
	c := GenerateSyntheticSeries(9876.54, 60, models.Timeframe24h)
	assert.NotEqual(t, a[0].Value, c[0].Value)
}

func TestGenerateSyntheticSeries_InvalidBase(t *testing.T) {
	assert.Nil(t, GenerateSyntheticSeries(0, 100, models.Timeframe30d))
	assert.Nil(t, GenerateSyntheticSeries(math.NaN(), 100, models.Timeframe30d))
	assert.Nil(t, GenerateSyntheticSeries(math.Inf(1), 100, models.Timeframe30d))
	assert.Nil(t, GenerateSyntheticSeries(100, 0, models.Timeframe30d))
}

func TestSeriesCache_GeneratesPerTimeframe(t *testing.T) {
	cache := NewSeriesCache()

	day := cache.Ensure(models.Timeframe24h, 10000)
	week := cache.Ensure(models.Timeframe7d, 10000)
	month := cache.Ensure(models.Timeframe30d, 10000)

	assert.Len(t, day, 60)
	assert.Len(t, week, 80)
	assert.Len(t, month, 100)
}

func TestSeriesCache_RescaleSameBaseIsNoop(t *testing.T) {
	cache := NewSeriesCache()

	first := cache.Ensure(models.Timeframe30d, 10000)
	second := cache.Ensure(models.Timeframe30d, 10000)

	require.Len(t, second, len(first))
	for i := range first {
		assert.InDelta(t, first[i].Value, second[i].Value, 1e-9)
	}
}

func TestSeriesCache_RescalePreservesShape(t *testing.T) {
	cache := NewSeriesCache()

	first := cache.Ensure(models.Timeframe30d, 10000)
	second := cache.Ensure(models.Timeframe30d, 20000)

	require.Len(t, second, len(first))
	assert.InDelta(t, 20000, second[len(second)-1].Value, 1e-9)
	for i := range first {
		assert.InDelta(t, first[i].Value*2, second[i].Value, 1e-6)
	}
}

func TestSeriesCache_ZeroBaseClearsEntry(t *testing.T) {
	cache := NewSeriesCache()

	require.NotEmpty(t, cache.Ensure(models.Timeframe30d, 10000))
	assert.Nil(t, cache.Ensure(models.Timeframe30d, 0))

	// The next valid call regenerates rather than rescaling a stale curve.
	regenerated := cache.Ensure(models.Timeframe30d, 5000)
	require.Len(t, regenerated, 100)
	assert.Equal(t, 5000.0, regenerated[len(regenerated)-1].Value)
}

func TestSeriesCache_ReturnsCopies(t *testing.T) {
	cache := NewSeriesCache()

	series := cache.Ensure(models.Timeframe24h, 10000)
	series[0].Value = -1

	fresh := cache.Ensure(models.Timeframe24h, 10000)
	assert.NotEqual(t, -1.0, fresh[0].Value)
}
