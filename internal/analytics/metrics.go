package analytics

import (
	"math"

	"github.com/bobmcallan/folio/internal/models"
)

// Trading-year convention for the synthetic daily series.
const tradingDaysPerYear = 252

// VaR z-score for a 95% one-tailed confidence level.
const varZScore = 1.65

// ComputeSeriesMetrics derives annualized return, annualized volatility,
// Sharpe ratio and max drawdown from a value series. Requires at least two
// points with positive endpoints; anything less yields all-Unknown metrics.
// MaxDrawdown is non-positive; more negative is worse.
func ComputeSeriesMetrics(series []models.SeriesPoint) models.SeriesMetrics {
	unknown := models.SeriesMetrics{
		AnnualizedReturn: models.Unknown(),
		Volatility:       models.Unknown(),
		Sharpe:           models.Unknown(),
		MaxDrawdown:      models.Unknown(),
	}

	if len(series) < 2 {
		return unknown
	}
	values := models.SeriesValues(series)
	first, last := values[0], values[len(values)-1]
	if first <= 0 || last <= 0 || math.IsNaN(first) || math.IsNaN(last) {
		return unknown
	}

	// Simple per-step returns, skipping non-positive adjacent pairs.
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev, curr := values[i-1], values[i]
		if prev > 0 && curr > 0 {
			returns = append(returns, (curr-prev)/prev)
		}
	}
	if len(returns) == 0 {
		return unknown
	}

	avg := 0.0
	for _, r := range returns {
		avg += r
	}
	avg /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - avg) * (r - avg)
	}
	variance /= float64(len(returns))
	volDaily := math.Sqrt(math.Max(variance, 0))

	annualizedReturn := math.Pow(1+avg, tradingDaysPerYear) - 1
	annualizedVol := volDaily * math.Sqrt(tradingDaysPerYear)

	sharpe := math.NaN()
	if annualizedVol > 0 {
		sharpe = annualizedReturn / annualizedVol
	}

	peak := values[0]
	maxDD := 0.0
	for i := 1; i < len(values); i++ {
		v := values[i]
		if v > peak {
			peak = v
		}
		dd := (v - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}

	return models.SeriesMetrics{
		AnnualizedReturn: models.NullFloat(annualizedReturn),
		Volatility:       models.NullFloat(annualizedVol),
		Sharpe:           models.NullFloat(sharpe),
		MaxDrawdown:      models.NullFloat(maxDD),
	}
}

// DailyVolatility converts an annualized volatility back to its daily
// figure under the 252-day convention. Unknown in, zero out.
func DailyVolatility(annualizedVol models.NullFloat) float64 {
	if annualizedVol.IsUnknown() {
		return 0
	}
	return annualizedVol.Float64() / math.Sqrt(tradingDaysPerYear)
}

// ValueAtRisk estimates the 95% one-tailed worst-case loss over the given
// horizon from daily volatility and current total value.
func ValueAtRisk(totalValue, dailyVol float64, horizonDays int) float64 {
	if horizonDays < 1 {
		horizonDays = 1
	}
	return totalValue * dailyVol * math.Sqrt(float64(horizonDays)) * varZScore
}
