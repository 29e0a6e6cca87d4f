package spectral

// SpectralFlux computes measures of frame-to-frame spectral change from a
// magnitude spectrogram (time x frequency)
type SpectralFlux struct{}

// NewSpectralFlux creates a new spectral flux calculator
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{}
}

// Compute calculates the signed band-averaged spectral difference per frame.
// The first frame is zero so output length matches the spectrogram.
func (sf *SpectralFlux) Compute(spectrogram [][]float64) []float64 {
	flux := make([]float64, len(spectrogram))
	if len(spectrogram) < 2 {
		return flux
	}

	for t := 1; t < len(spectrogram); t++ {
		sum := 0.0
		for f := range spectrogram[t] {
			sum += spectrogram[t][f] - spectrogram[t-1][f]
		}
		flux[t] = sum / float64(len(spectrogram[t]))
	}

	return flux
}

// ComputeOnsetStrength calculates half-wave rectified spectral flux, keeping
// only energy increases. This is the standard onset strength envelope.
func (sf *SpectralFlux) ComputeOnsetStrength(spectrogram [][]float64) []float64 {
	strength := make([]float64, len(spectrogram))
	if len(spectrogram) < 2 {
		return strength
	}

	for t := 1; t < len(spectrogram); t++ {
		sum := 0.0
		for f := range spectrogram[t] {
			if diff := spectrogram[t][f] - spectrogram[t-1][f]; diff > 0 {
				sum += diff
			}
		}
		strength[t] = sum / float64(len(spectrogram[t]))
	}

	return strength
}
