package analytics

import (
	"math"
	"sync"

	"github.com/bobmcallan/folio/internal/models"
)

// Per-timeframe walk parameters: shorter horizons get lower volatility
// and fewer points.
var timeframeVolatility = map[models.Timeframe]float64{
	models.Timeframe24h: 0.012,
	models.Timeframe7d:  0.035,
	models.Timeframe30d: 0.06,
}

var timeframePoints = map[models.Timeframe]int{
	models.Timeframe24h: 60,
	models.Timeframe7d:  80,
	models.Timeframe30d: 100,
}

// SeededRandom is a deterministic sine-hash mapping a seed to [0,1).
// The same seed always yields the same value, so regenerated curves do not
// jitter between renders.
func SeededRandom(seed float64) float64 {
	x := math.Sin(seed) * 10000
	return x - math.Floor(x)
}

// GenerateSyntheticSeries produces a pseudo-random walk of the given length
// seeded from floor(baseValue), drifting toward baseValue with the final
// point forced to equal it exactly. Returns nil for a non-finite or zero base.
func GenerateSyntheticSeries(baseValue float64, points int, timeframe models.Timeframe) []models.SeriesPoint {
	if baseValue == 0 || math.IsNaN(baseValue) || math.IsInf(baseValue, 0) || points <= 0 {
		return nil
	}

	base := math.Max(baseValue, 1)
	vol, ok := timeframeVolatility[timeframe]
	if !ok {
		vol = timeframeVolatility[models.Timeframe30d]
	}

	seed := math.Floor(baseValue)
	v := base * (1 - vol*0.8)

	series := make([]models.SeriesPoint, 0, points)
	for i := 0; i < points; i++ {
		drift := base * 0.0004
		noise := (SeededRandom(seed+float64(i)) - 0.5) * 2 * vol * base
		v = math.Max(base*0.4, v+drift+noise)
		t := float64(i) / math.Max(float64(points-1), 1)
		series = append(series, models.SeriesPoint{T: t, Value: v})
	}
	series[len(series)-1].Value = base

	return series
}

// SeriesCache maintains one synthetic series per timeframe, anchored to the
// live portfolio total. The cache is owned by the orchestrating service;
// entries are replaced wholesale, never partially mutated.
type SeriesCache struct {
	mu     sync.Mutex
	series map[models.Timeframe][]models.SeriesPoint
}

// NewSeriesCache creates an empty series cache.
func NewSeriesCache() *SeriesCache {
	return &SeriesCache{series: make(map[models.Timeframe][]models.SeriesPoint)}
}

// Ensure returns the series for the timeframe, generating it on first use
// and rescaling the cached curve to the new base value afterwards. Rescaling
// preserves the curve's shape so refreshes stay continuous instead of
// regenerating a different walk. A zero or non-finite base clears the entry.
func (c *SeriesCache) Ensure(timeframe models.Timeframe, baseValue float64) []models.SeriesPoint {
	c.mu.Lock()
	defer c.mu.Unlock()

	if baseValue == 0 || math.IsNaN(baseValue) || math.IsInf(baseValue, 0) {
		delete(c.series, timeframe)
		return nil
	}

	existing := c.series[timeframe]
	if len(existing) == 0 {
		points := timeframePoints[timeframe]
		if points == 0 {
			points = timeframePoints[models.Timeframe30d]
		}
		generated := GenerateSyntheticSeries(baseValue, points, timeframe)
		c.series[timeframe] = generated
		return cloneSeries(generated)
	}

	lastValue := existing[len(existing)-1].Value
	if math.IsNaN(lastValue) || math.IsInf(lastValue, 0) {
		lastValue = baseValue
	}
	factor := 1.0
	if lastValue != 0 {
		factor = baseValue / lastValue
	}

	scaled := make([]models.SeriesPoint, len(existing))
	for i, p := range existing {
		scaled[i] = models.SeriesPoint{T: p.T, Value: p.Value * factor}
	}
	c.series[timeframe] = scaled

	return cloneSeries(scaled)
}

// Clear drops every cached series.
func (c *SeriesCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = make(map[models.Timeframe][]models.SeriesPoint)
}

func cloneSeries(series []models.SeriesPoint) []models.SeriesPoint {
	out := make([]models.SeriesPoint, len(series))
	copy(out, series)
	return out
}
