package filters

import (
	"sort"
)

// MedianFilter implements a one-dimensional sliding-window median filter.
// The window is centered on each sample and the signal is reflect-padded at
// the boundaries, matching scipy.ndimage.median_filter defaults.
//
// Median filtering removes isolated spikes without blurring genuine edges,
// which makes it the right tool for de-glitching composite signals and for
// absorbing spuriously short label runs.
type MedianFilter struct {
	size int
}

// NewMedianFilter creates a median filter with the given window size.
// An even size is widened to the next odd value so the window stays centered.
func NewMedianFilter(size int) *MedianFilter {
	if size < 1 {
		size = 1
	}
	if size%2 == 0 {
		size++
	}
	return &MedianFilter{size: size}
}

// Apply filters the signal and returns a new slice of the same length
func (m *MedianFilter) Apply(signal []float64) []float64 {
	out := make([]float64, len(signal))
	if len(signal) == 0 {
		return out
	}
	if m.size == 1 {
		copy(out, signal)
		return out
	}

	half := m.size / 2
	window := make([]float64, m.size)

	for i := range signal {
		for k := -half; k <= half; k++ {
			window[k+half] = signal[reflectIndex(i+k, len(signal))]
		}
		sort.Float64s(window)
		out[i] = window[half]
	}

	return out
}

// ApplyInt filters an integer label sequence, used for zone smoothing where
// the median of labels absorbs short runs into their neighbors
func (m *MedianFilter) ApplyInt(labels []int) []int {
	out := make([]int, len(labels))
	if len(labels) == 0 {
		return out
	}
	if m.size == 1 {
		copy(out, labels)
		return out
	}

	half := m.size / 2
	window := make([]int, m.size)

	for i := range labels {
		for k := -half; k <= half; k++ {
			window[k+half] = labels[reflectIndex(i+k, len(labels))]
		}
		sort.Ints(window)
		out[i] = window[half]
	}

	return out
}

// Median is a convenience wrapper for one-off filtering passes
func Median(signal []float64, size int) []float64 {
	return NewMedianFilter(size).Apply(signal)
}
