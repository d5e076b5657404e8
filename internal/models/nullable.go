package models

import (
	"math"
	"strconv"
)

// NullFloat is a float64 that marshals NaN and infinities as JSON null.
// It carries the "unknown" sentinel through the analytics pipeline: a NaN
// cost basis stays NaN through every aggregate instead of collapsing to 0,
// and reaches the wire as null rather than breaking the encoder.
type NullFloat float64

// Unknown is the NullFloat sentinel for a value with no defined result.
func Unknown() NullFloat {
	return NullFloat(math.NaN())
}

// IsUnknown reports whether the value carries the NaN sentinel.
func (f NullFloat) IsUnknown() bool {
	v := float64(f)
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Float64 returns the underlying float64, NaN when unknown.
func (f NullFloat) Float64() float64 {
	return float64(f)
}

// MarshalJSON writes null for NaN/Inf, the plain number otherwise.
func (f NullFloat) MarshalJSON() ([]byte, error) {
	if f.IsUnknown() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(f), 'g', -1, 64), nil
}

// UnmarshalJSON reads null as the NaN sentinel.
func (f *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Unknown()
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = NullFloat(v)
	return nil
}

// NullFloats converts a float64 slice, preserving NaN sentinels.
func NullFloats(values []float64) []NullFloat {
	out := make([]NullFloat, len(values))
	for i, v := range values {
		out[i] = NullFloat(v)
	}
	return out
}
