package analytics

import (
	"math"

	"github.com/bobmcallan/folio/internal/models"
)

// Indicator parameters. The seeding conventions (RSI first defined at index
// 14 from diffs 1..14, MACD EMAs seeded by simple averages of the first
// 12/26 closes) are load-bearing: downstream consumers align overlays
// index-for-index with the input series.
const (
	bbPeriod = 20
	bbK      = 2.0

	rsiPeriod = 14

	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9

	minIndicatorLen = 5
)

// ComputeIndicators computes Bollinger Bands, RSI(14) and MACD(12,26,9)
// over a value series. Arrays are aligned with the input; entries before an
// indicator's first defined index carry the Unknown sentinel. Series
// shorter than 5 points yield an all-nil set, and the MACD block is nil
// unless the series is long enough to seed the slow EMA plus signal line.
func ComputeIndicators(series []models.SeriesPoint) *models.IndicatorSet {
	closes := models.SeriesValues(series)
	n := len(closes)

	result := &models.IndicatorSet{}
	if n < minIndicatorLen {
		return result
	}

	result.BB = computeBollinger(closes)
	result.RSI = computeRSI(closes)
	if n > macdSlow+macdSignal {
		result.MACD = computeMACD(closes)
	}

	return result
}

// computeBollinger fills the 20-period bands using the population standard
// deviation of the trailing window. Indices below period-1 stay Unknown.
func computeBollinger(closes []float64) *models.BollingerBands {
	n := len(closes)
	bands := &models.BollingerBands{
		Upper:  unknownSeries(n),
		Lower:  unknownSeries(n),
		Middle: unknownSeries(n),
	}

	for i := bbPeriod - 1; i < n; i++ {
		sum := 0.0
		for j := i - bbPeriod + 1; j <= i; j++ {
			sum += closes[j]
		}
		ma := sum / bbPeriod

		varSum := 0.0
		for j := i - bbPeriod + 1; j <= i; j++ {
			d := closes[j] - ma
			varSum += d * d
		}
		std := math.Sqrt(varSum / bbPeriod)

		bands.Middle[i] = models.NullFloat(ma)
		bands.Upper[i] = models.NullFloat(ma + bbK*std)
		bands.Lower[i] = models.NullFloat(ma - bbK*std)
	}

	return bands
}

// computeRSI fills Wilder-smoothed RSI(14). The first value lands at index
// 14, seeded from the average gain/loss of diffs 1..14; afterwards the
// averages update recursively as (avg*13 + current)/14.
func computeRSI(closes []float64) []models.NullFloat {
	n := len(closes)
	rsi := unknownSeries(n)
	if n <= rsiPeriod {
		return rsi
	}

	var gains, losses float64
	for i := 1; i <= rsiPeriod; i++ {
		diff := closes[i] - closes[i-1]
		if diff >= 0 {
			gains += diff
		} else {
			losses -= diff
		}
	}
	avgGain := gains / rsiPeriod
	avgLoss := losses / rsiPeriod

	rsi[rsiPeriod] = models.NullFloat(rsiValue(avgGain, avgLoss))

	for i := rsiPeriod + 1; i < n; i++ {
		diff := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if diff > 0 {
			gain = diff
		} else if diff < 0 {
			loss = -diff
		}
		avgGain = (avgGain*(rsiPeriod-1) + gain) / rsiPeriod
		avgLoss = (avgLoss*(rsiPeriod-1) + loss) / rsiPeriod
		rsi[i] = models.NullFloat(rsiValue(avgGain, avgLoss))
	}

	return rsi
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// computeMACD fills the MACD line, its 9-period signal EMA and the
// histogram. Both EMAs are seeded by the simple average of their first
// window; the signal is seeded from the first 9 defined MACD values.
func computeMACD(closes []float64) *models.MACDSeries {
	n := len(closes)
	emaFast := emaSeries(closes, macdFast)
	emaSlow := emaSeries(closes, macdSlow)

	macd := unknownFloats(n)
	for i := 0; i < n; i++ {
		if !math.IsNaN(emaFast[i]) && !math.IsNaN(emaSlow[i]) {
			macd[i] = emaFast[i] - emaSlow[i]
		}
	}

	signal := unknownFloats(n)
	kSig := 2.0 / (macdSignal + 1)
	firstIdx := -1
	for i, v := range macd {
		if !math.IsNaN(v) {
			firstIdx = i
			break
		}
	}
	if firstIdx >= 0 && n-firstIdx >= macdSignal {
		sum := 0.0
		for i := firstIdx; i < firstIdx+macdSignal; i++ {
			sum += macd[i]
		}
		signal[firstIdx+macdSignal-1] = sum / macdSignal
		for i := firstIdx + macdSignal; i < n; i++ {
			signal[i] = macd[i]*kSig + signal[i-1]*(1-kSig)
		}
	}

	hist := unknownFloats(n)
	for i := 0; i < n; i++ {
		if !math.IsNaN(macd[i]) && !math.IsNaN(signal[i]) {
			hist[i] = macd[i] - signal[i]
		}
	}

	return &models.MACDSeries{
		MACD:   models.NullFloats(macd),
		Signal: models.NullFloats(signal),
		Hist:   models.NullFloats(hist),
	}
}

// emaSeries computes an EMA seeded by the simple average of the first
// `period` values, defined from index period-1 onward.
func emaSeries(closes []float64, period int) []float64 {
	n := len(closes)
	ema := unknownFloats(n)
	if n < period {
		return ema
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += closes[i]
	}
	ema[period-1] = sum / float64(period)

	k := 2.0 / float64(period+1)
	for i := period; i < n; i++ {
		ema[i] = closes[i]*k + ema[i-1]*(1-k)
	}

	return ema
}

func unknownSeries(n int) []models.NullFloat {
	out := make([]models.NullFloat, n)
	for i := range out {
		out[i] = models.Unknown()
	}
	return out
}

func unknownFloats(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
