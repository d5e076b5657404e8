package models

import (
	"encoding/json"
	"fmt"
)

// PricePoint is one historical close: millisecond timestamp plus price.
// The feed encodes these as two-element JSON arrays, oldest first.
type PricePoint struct {
	Timestamp int64
	Price     float64
}

// UnmarshalJSON decodes the [timestampMs, price] pair format.
func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid price point: %w", err)
	}
	p.Timestamp = int64(pair[0])
	p.Price = pair[1]
	return nil
}

// MarshalJSON encodes back to the [timestampMs, price] pair format.
func (p PricePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{float64(p.Timestamp), p.Price})
}

// Prices extracts the close column of a history window.
func Prices(points []PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Price
	}
	return out
}

// FXRates maps currency code to its multiplier relative to USD.
type FXRates map[string]float64

// Rate returns the multiplier for code, 1 when unknown (USD passthrough).
func (r FXRates) Rate(code string) float64 {
	if v, ok := r[code]; ok && v > 0 {
		return v
	}
	return 1
}
