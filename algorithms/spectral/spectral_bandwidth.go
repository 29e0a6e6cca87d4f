package spectral

import (
	"math"
)

// SpectralBandwidth computes the magnitude-weighted spread of the spectrum
// around its centroid per frame (second spectral moment, p = 2)
type SpectralBandwidth struct{}

// NewSpectralBandwidth creates a new spectral bandwidth calculator
func NewSpectralBandwidth() *SpectralBandwidth {
	return &SpectralBandwidth{}
}

// Compute calculates the bandwidth in Hz for every spectrogram frame
func (sb *SpectralBandwidth) Compute(result *STFTResult) []float64 {
	centroid := NewSpectralCentroid().Compute(result)
	bandwidth := make([]float64, result.TimeFrames)

	for t, frame := range result.Magnitude {
		weightedSum := 0.0
		magnitudeSum := 0.0
		for b, mag := range frame {
			dev := result.BinFrequency(b) - centroid[t]
			weightedSum += mag * dev * dev
			magnitudeSum += mag
		}
		if magnitudeSum > 0 {
			bandwidth[t] = math.Sqrt(weightedSum / magnitudeSum)
		}
	}

	return bandwidth
}
