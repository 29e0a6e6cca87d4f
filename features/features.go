package features

// TrackFeatures holds every raw per-frame stream the analysis pipeline
// consumes, all sampled at the native analysis rate (one frame per hop).
// Streams are raw: normalization and smoothing are the pipeline's job.
type TrackFeatures struct {
	// Frame geometry
	SampleRate int     `json:"sample_rate"` // analysis sample rate (after downsampling)
	HopSize    int     `json:"hop_size"`
	FrameRate  float64 `json:"frame_rate"` // frames per second
	Duration   float64 `json:"duration"`   // seconds

	// Energy and spectral shape
	RMS               []float64 `json:"rms"`
	SpectralContrast  []float64 `json:"spectral_contrast"` // band-averaged
	SpectralFlux      []float64 `json:"spectral_flux"`     // signed band-averaged
	MeanSpectrum      []float64 `json:"mean_spectrum"`     // band-averaged magnitude
	SpectralCentroid  []float64 `json:"spectral_centroid"`
	SpectralBandwidth []float64 `json:"spectral_bandwidth"`

	// Rhythm
	Tempo         float64   `json:"tempo"` // BPM
	BeatFrames    []int     `json:"beat_frames"`
	OnsetEnvelope []float64 `json:"onset_envelope"`
	OnsetFrames   []int     `json:"onset_frames"`

	// Source-separated energy
	HarmonicRMS   []float64 `json:"harmonic_rms"`
	PercussiveRMS []float64 `json:"percussive_rms"`

	// Pitch and timbre matrices
	Chroma        [][]float64 `json:"-"` // time x 12 pitch classes
	DominantPitch []int       `json:"dominant_pitch"`
	MFCC          [][]float64 `json:"-"` // time x coefficients
}

// NumFrames returns the length of the per-frame streams
func (tf *TrackFeatures) NumFrames() int {
	return len(tf.RMS)
}

// FrameToTime converts a native frame index to seconds
func (tf *TrackFeatures) FrameToTime(frame int) float64 {
	if tf.FrameRate == 0 {
		return 0
	}
	return float64(frame) / tf.FrameRate
}
