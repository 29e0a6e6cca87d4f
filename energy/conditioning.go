package energy

import (
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/common"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/filters"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/temporal"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/features"
)

// Conditioned holds the per-frame feature streams after normalization and
// Gaussian smoothing, all aligned on the native frame grid. Downstream
// stages may assume every stream has the same length as the raw features.
type Conditioned struct {
	RMS           []float64
	Contrast      []float64
	Flux          []float64
	BeatPulse     []float64
	HarmonicRMS   []float64
	PercussiveRMS []float64
	SpectralTrend []float64
	Centroid      []float64
	Bandwidth     []float64
}

// Condition normalizes each raw feature stream and smooths it with a
// Gaussian whose width matches how fast the feature varies: slow timbral
// streams get wide kernels, transient-driven streams stay narrow. An
// absent or silent stream conditions to all zeros rather than an error.
//
// The spectral trend is the one stream left unnormalized: the buildup
// detector thresholds it in absolute units, so rescaling it would break
// the detector's tuned sensitivity.
func Condition(tf *features.TrackFeatures, cfg *PipelineConfig) *Conditioned {
	n := tf.NumFrames()

	out := &Conditioned{
		RMS:           smoothNormalized(tf.RMS, n, cfg.RMSSigma),
		Contrast:      smoothNormalized(tf.SpectralContrast, n, cfg.ContrastSigma),
		Flux:          smoothNormalized(tf.SpectralFlux, n, cfg.FluxSigma),
		HarmonicRMS:   smoothNormalized(tf.HarmonicRMS, n, cfg.ComponentSigma),
		PercussiveRMS: smoothNormalized(tf.PercussiveRMS, n, cfg.ComponentSigma),
		Centroid:      smoothNormalized(tf.SpectralCentroid, n, cfg.ColorSigma),
		Bandwidth:     smoothNormalized(tf.SpectralBandwidth, n, cfg.ColorSigma),
	}

	// Beat pulse: unit impulses at beat frames, widened into humps and
	// renormalized so isolated beats and dense beats weigh the same.
	pulse := temporal.BeatPulse(n, tf.BeatFrames)
	pulse = filters.Gaussian(pulse, cfg.BeatSigma)
	out.BeatPulse = common.PeakNormalize(pulse)

	// Spectral trend: frame-to-frame change of the mean spectrum, heavily
	// smoothed so only sustained rises survive.
	trend := common.Diff(padTo(tf.MeanSpectrum, n))
	out.SpectralTrend = filters.Gaussian(trend, cfg.TrendSigma)

	return out
}

// smoothNormalized peak-normalizes then Gaussian-smooths a stream,
// padding or truncating it to n frames first.
func smoothNormalized(stream []float64, n int, sigma float64) []float64 {
	normed := common.PeakNormalize(padTo(stream, n))
	return filters.Gaussian(normed, sigma)
}

// padTo returns a copy of stream with exactly n samples, zero padding the
// tail when the source is short. Stream lengths only ever disagree by a
// frame or two at the edges, so padding with silence is harmless.
func padTo(stream []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, stream)
	return out
}
