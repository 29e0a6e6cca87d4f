package common

import (
	"math"
)

// MinMaxNormalize scales data to the [0, 1] range. A constant (or empty)
// input yields an all-zero output rather than dividing by a zero range.
func MinMaxNormalize(data []float64) []float64 {
	normalized := make([]float64, len(data))
	if len(data) == 0 {
		return normalized
	}

	lo := Min(data)
	hi := Max(data)

	if math.Abs(hi-lo) < 1e-10 {
		return normalized
	}

	for i, val := range data {
		normalized[i] = (val - lo) / (hi - lo)
	}

	return normalized
}

// PeakNormalize scales data so the maximum absolute value is 1. Silent input
// is returned unchanged (librosa.util.normalize semantics).
func PeakNormalize(data []float64) []float64 {
	normalized := make([]float64, len(data))
	copy(normalized, data)

	peak := 0.0
	for _, val := range data {
		if abs := math.Abs(val); abs > peak {
			peak = abs
		}
	}

	if peak < 1e-10 {
		return normalized
	}

	for i := range normalized {
		normalized[i] /= peak
	}

	return normalized
}
