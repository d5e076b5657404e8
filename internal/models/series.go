package models

// Timeframe identifies a synthetic series horizon bucket.
type Timeframe string

const (
	Timeframe24h Timeframe = "24h"
	Timeframe7d  Timeframe = "7d"
	Timeframe30d Timeframe = "30d"
)

// Valid reports whether the timeframe is one of the known buckets.
func (t Timeframe) Valid() bool {
	switch t {
	case Timeframe24h, Timeframe7d, Timeframe30d:
		return true
	}
	return false
}

// SeriesPoint is one point of a value series; T is normalized to [0,1]
// and index order is time order.
type SeriesPoint struct {
	T     float64 `json:"t"`
	Value float64 `json:"value"`
}

// SeriesValues extracts the value column of a series.
func SeriesValues(series []SeriesPoint) []float64 {
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}
	return values
}

// BollingerBands holds the three band arrays, aligned with the input series.
// Entries before the first full window are Unknown (null on the wire).
type BollingerBands struct {
	Upper  []NullFloat `json:"upper"`
	Lower  []NullFloat `json:"lower"`
	Middle []NullFloat `json:"middle"`
}

// MACDSeries holds the MACD line, signal line and histogram, aligned with
// the input series.
type MACDSeries struct {
	MACD   []NullFloat `json:"macd"`
	Signal []NullFloat `json:"signal"`
	Hist   []NullFloat `json:"hist"`
}

// IndicatorSet bundles all indicator overlays for one series.
// A nil block means the series is too short for that indicator.
type IndicatorSet struct {
	BB   *BollingerBands `json:"bb"`
	RSI  []NullFloat     `json:"rsi"`
	MACD *MACDSeries     `json:"macd"`
}

// SeriesMetrics holds statistical risk measures for a value series.
// Volatility is annualized; every field is Unknown when the series is
// too short or degenerate.
type SeriesMetrics struct {
	AnnualizedReturn NullFloat `json:"annualized_return"`
	Volatility       NullFloat `json:"volatility"`
	Sharpe           NullFloat `json:"sharpe"`
	MaxDrawdown      NullFloat `json:"max_drawdown"`
}

// RiskReport is the metrics payload served to callers: series metrics plus
// Value-at-Risk figures derived from daily volatility and current value.
type RiskReport struct {
	Metrics    SeriesMetrics `json:"metrics"`
	TotalValue float64       `json:"total_value"`
	VaR1Day    NullFloat     `json:"var_1d"`
	VaR5Day    NullFloat     `json:"var_5d"`
}
