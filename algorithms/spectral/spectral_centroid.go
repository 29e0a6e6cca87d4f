package spectral

// SpectralCentroid computes the magnitude-weighted mean frequency per frame.
// The centroid tracks perceived brightness: hats and cymbals pull it up,
// bass-heavy passages pull it down.
type SpectralCentroid struct{}

// NewSpectralCentroid creates a new spectral centroid calculator
func NewSpectralCentroid() *SpectralCentroid {
	return &SpectralCentroid{}
}

// Compute calculates the centroid in Hz for every spectrogram frame
func (sc *SpectralCentroid) Compute(result *STFTResult) []float64 {
	centroid := make([]float64, result.TimeFrames)

	for t, frame := range result.Magnitude {
		weightedSum := 0.0
		magnitudeSum := 0.0
		for b, mag := range frame {
			weightedSum += result.BinFrequency(b) * mag
			magnitudeSum += mag
		}
		if magnitudeSum > 0 {
			centroid[t] = weightedSum / magnitudeSum
		}
	}

	return centroid
}
