package backtest

import "math"

// Annualization and risk-free conventions for equity-curve statistics.
// Crypto trades every day, hence 365 rather than 252.
const (
	daysPerYear  = 365
	riskFreeRate = 0.02
)

// curveStats holds annualized performance statistics for an equity curve.
// MaxDrawdown is a positive peak-to-trough fraction.
type curveStats struct {
	Sharpe      float64
	Sortino     float64
	MaxDrawdown float64
}

// computeCurveStats derives Sharpe, Sortino and max drawdown from daily
// curve values. Sortino's downside deviation uses only negative returns.
func computeCurveStats(curve []float64) curveStats {
	if len(curve) < 2 {
		return curveStats{}
	}

	returns := make([]float64, 0, len(curve)-1)
	peak := curve[0]
	maxDD := 0.0
	downsideSum := 0.0

	for i := 1; i < len(curve); i++ {
		r := (curve[i] - curve[i-1]) / curve[i-1]
		returns = append(returns, r)

		if curve[i] > peak {
			peak = curve[i]
		}
		dd := (peak - curve[i]) / peak
		if dd > maxDD {
			maxDD = dd
		}

		if r < 0 {
			downsideSum += r * r
		}
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
	stdDev := math.Sqrt(variance / float64(len(returns)))
	downDev := math.Sqrt(downsideSum / float64(len(returns)))

	annRet := avg * daysPerYear
	annVol := stdDev * math.Sqrt(daysPerYear)

	stats := curveStats{MaxDrawdown: maxDD}
	if annVol > 0 {
		stats.Sharpe = (annRet - riskFreeRate) / annVol
	}
	if downDev > 0 {
		stats.Sortino = (annRet - riskFreeRate) / (downDev * math.Sqrt(daysPerYear))
	}

	return stats
}
