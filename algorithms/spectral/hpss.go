package spectral

import (
	"math"
	"sort"
)

// HPSS separates a magnitude spectrogram into harmonic and percussive
// components using median filtering: harmonic structures are continuous
// across time (horizontal), percussive events are continuous across
// frequency (vertical). Soft Wiener-style masks split the input.
//
// References:
//   - Fitzgerald, D. (2010). "Harmonic/percussive separation using median
//     filtering", DAFx-10
type HPSS struct {
	kernelTime int // median window across time frames
	kernelFreq int // median window across frequency bins
	power      float64
}

// NewHPSS creates a separator with standard 31-sample median kernels
func NewHPSS() *HPSS {
	return &HPSS{
		kernelTime: 31,
		kernelFreq: 31,
		power:      2.0,
	}
}

// HPSSResult holds the separated magnitude spectrograms
type HPSSResult struct {
	Harmonic   [][]float64 `json:"-"` // Time x Frequency
	Percussive [][]float64 `json:"-"` // Time x Frequency
}

// Separate splits the spectrogram of an STFT result
func (h *HPSS) Separate(result *STFTResult) *HPSSResult {
	frames := result.TimeFrames
	bins := result.FreqBins

	harmonicEnh := make([][]float64, frames)
	percussiveEnh := make([][]float64, frames)
	for t := 0; t < frames; t++ {
		harmonicEnh[t] = make([]float64, bins)
		percussiveEnh[t] = make([]float64, bins)
	}

	// Harmonic enhancement: median across time for each frequency bin
	halfT := h.kernelTime / 2
	column := make([]float64, h.kernelTime)
	for b := 0; b < bins; b++ {
		for t := 0; t < frames; t++ {
			for k := -halfT; k <= halfT; k++ {
				column[k+halfT] = result.Magnitude[clampIndex(t+k, frames)][b]
			}
			harmonicEnh[t][b] = medianOf(column)
		}
	}

	// Percussive enhancement: median across frequency for each frame
	halfF := h.kernelFreq / 2
	row := make([]float64, h.kernelFreq)
	for t := 0; t < frames; t++ {
		for b := 0; b < bins; b++ {
			for k := -halfF; k <= halfF; k++ {
				row[k+halfF] = result.Magnitude[t][clampIndex(b+k, bins)]
			}
			percussiveEnh[t][b] = medianOf(row)
		}
	}

	out := &HPSSResult{
		Harmonic:   make([][]float64, frames),
		Percussive: make([][]float64, frames),
	}

	// Soft masks weight the original magnitudes
	for t := 0; t < frames; t++ {
		out.Harmonic[t] = make([]float64, bins)
		out.Percussive[t] = make([]float64, bins)
		for b := 0; b < bins; b++ {
			hp := math.Pow(harmonicEnh[t][b], h.power)
			pp := math.Pow(percussiveEnh[t][b], h.power)
			total := hp + pp
			if total < 1e-10 {
				continue
			}
			out.Harmonic[t][b] = result.Magnitude[t][b] * hp / total
			out.Percussive[t][b] = result.Magnitude[t][b] * pp / total
		}
	}

	return out
}

// FrameRMS converts a component magnitude spectrogram into a per-frame RMS
// stream via Parseval's relation, avoiding a full inverse transform
func FrameRMS(spectrogram [][]float64, windowSize int) []float64 {
	out := make([]float64, len(spectrogram))
	for t, frame := range spectrogram {
		energy := 0.0
		for b, mag := range frame {
			e := mag * mag
			// Interior bins represent both positive and negative frequencies
			if b != 0 && b != len(frame)-1 {
				e *= 2
			}
			energy += e
		}
		out[t] = math.Sqrt(energy) / float64(windowSize)
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func medianOf(window []float64) float64 {
	tmp := make([]float64, len(window))
	copy(tmp, window)
	sort.Float64s(tmp)
	return tmp[len(tmp)/2]
}
