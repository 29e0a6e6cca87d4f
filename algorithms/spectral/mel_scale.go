package spectral

import (
	"math"
)

// MelScale provides mel frequency conversion and filter bank construction
// for cepstral feature extraction
type MelScale struct{}

// NewMelScale creates a new mel scale converter
func NewMelScale() *MelScale {
	return &MelScale{}
}

// HzToMel converts frequency in Hz to mel scale
func (ms *MelScale) HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts mel scale to frequency in Hz
func (ms *MelScale) MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// CreateFilterBank creates a triangular mel filter bank covering
// [lowFreq, highFreq] with numFilters filters over fftSize/2+1 bins
func (ms *MelScale) CreateFilterBank(numFilters, fftSize, sampleRate int, lowFreq, highFreq float64) [][]float64 {
	if numFilters <= 0 || fftSize <= 0 {
		return nil
	}

	lowMel := ms.HzToMel(lowFreq)
	highMel := ms.HzToMel(highFreq)

	melPoints := make([]float64, numFilters+2)
	melStep := (highMel - lowMel) / float64(numFilters+1)
	for i := range melPoints {
		melPoints[i] = lowMel + float64(i)*melStep
	}

	binPoints := make([]int, len(melPoints))
	for i, mel := range melPoints {
		hz := ms.MelToHz(mel)
		binPoints[i] = min(int(float64(fftSize)*hz/float64(sampleRate)+0.5), fftSize/2)
	}

	filterBank := make([][]float64, numFilters)
	for m := range filterBank {
		filterBank[m] = make([]float64, fftSize/2+1)

		left := binPoints[m]
		center := binPoints[m+1]
		right := binPoints[m+2]

		for k := left; k < center && k < len(filterBank[m]); k++ {
			if center != left {
				filterBank[m][k] = float64(k-left) / float64(center-left)
			}
		}
		for k := center; k < right && k < len(filterBank[m]); k++ {
			if right != center {
				filterBank[m][k] = float64(right-k) / float64(right-center)
			}
		}
	}

	return filterBank
}

// ApplyFilterBank projects a power spectrum onto the filter bank
func (ms *MelScale) ApplyFilterBank(powerSpectrum []float64, filterBank [][]float64) []float64 {
	out := make([]float64, len(filterBank))
	for m, filter := range filterBank {
		sum := 0.0
		for k, w := range filter {
			if k >= len(powerSpectrum) {
				break
			}
			sum += w * powerSpectrum[k]
		}
		out[m] = sum
	}
	return out
}
