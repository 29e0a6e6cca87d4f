package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions shared across the analysis packages, built on gonum

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Variance calculates the sample variance of a slice using gonum
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.Variance(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return math.Sqrt(Variance(data))
}

// Percentile calculates the p-th percentile (p between 0 and 1), linearly
// interpolating between adjacent order statistics at rank p*(n-1). This is
// numpy.percentile's default method; gonum's quantile kinds place the
// interpolation points differently.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 || p < 0 || p > 1 {
		return 0.0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	rank := p * float64(len(sorted)-1)
	lo := int(rank)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Max returns the maximum value of a non-empty slice
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Max(data)
}

// Min returns the minimum value of a non-empty slice
func Min(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Min(data)
}

// LinRegressionSlope fits y = alpha + beta*x over equally spaced samples and
// returns the slope beta, using gonum's linear regression
func LinRegressionSlope(y []float64) float64 {
	if len(y) < 2 {
		return 0.0
	}

	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}

	_, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0.0
	}
	return beta
}

// Diff computes the discrete first difference with a leading zero so the
// output has the same length as the input
func Diff(data []float64) []float64 {
	out := make([]float64, len(data))
	for i := 1; i < len(data); i++ {
		out[i] = data[i] - data[i-1]
	}
	return out
}

// Gradient computes central differences at interior points and one-sided
// differences at the edges (numpy.gradient semantics)
func Gradient(data []float64) []float64 {
	n := len(data)
	out := make([]float64, n)
	if n < 2 {
		return out
	}

	out[0] = data[1] - data[0]
	out[n-1] = data[n-1] - data[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (data[i+1] - data[i-1]) / 2.0
	}
	return out
}

// Clip limits every value to the [lo, hi] range in place and returns the slice
func Clip(data []float64, lo, hi float64) []float64 {
	for i, v := range data {
		if v < lo {
			data[i] = lo
		} else if v > hi {
			data[i] = hi
		}
	}
	return data
}

// FindPeaks finds local maxima in data that exceed minHeight and are at least
// minDistance indices apart. Among close peaks the higher one wins.
func FindPeaks(data []float64, minHeight float64, minDistance int) []int {
	if len(data) < 3 {
		return []int{}
	}

	var peaks []int

	for i := 1; i < len(data)-1; i++ {
		if data[i] > data[i-1] && data[i] > data[i+1] && data[i] >= minHeight {
			validPeak := true
			for j := len(peaks) - 1; j >= 0; j-- {
				if i-peaks[j] < minDistance {
					if data[i] > data[peaks[j]] {
						peaks = append(peaks[:j], peaks[j+1:]...)
					} else {
						validPeak = false
					}
					break
				}
			}

			if validPeak {
				peaks = append(peaks, i)
			}
		}
	}

	return peaks
}
