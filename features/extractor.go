package features

import (
	"fmt"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/chroma"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/common"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/spectral"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/temporal"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/decode"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/logging"
)

// Config holds feature extraction parameters. The analysis runs on the
// half-rate waveform with a 4096-sample window and 1024-sample hop, large
// frames chosen for smooth macro-scale streams rather than transient detail.
type Config struct {
	WindowSize       int     `json:"window_size"`
	HopSize          int     `json:"hop_size"`
	MFCCCoefficients int     `json:"mfcc_coefficients"`
	ContrastBands    int     `json:"contrast_bands"`
	ContrastFMin     float64 `json:"contrast_fmin"`
}

// DefaultConfig returns the standard extraction configuration
func DefaultConfig() *Config {
	return &Config{
		WindowSize:       4096,
		HopSize:          1024,
		MFCCCoefficients: 13,
		ContrastBands:    6,
		ContrastFMin:     20.0,
	}
}

// Extractor computes the full TrackFeatures bundle from a decoded waveform
type Extractor struct {
	cfg    *Config
	logger logging.Logger
}

// NewExtractor creates an extractor with the given configuration
func NewExtractor(cfg *Config) *Extractor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Extractor{
		cfg: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}
}

// Extract analyzes the waveform at half its native rate and returns every
// stream the pipeline needs. The original full-rate duration is preserved.
func (e *Extractor) Extract(audio *decode.Audio) (*TrackFeatures, error) {
	if audio == nil || len(audio.PCM) == 0 {
		return nil, fmt.Errorf("empty waveform")
	}

	duration := audio.Seconds()
	down := decode.Downsample(audio)
	if len(down.PCM) == 0 || down.SampleRate == 0 {
		return nil, fmt.Errorf("waveform too short to analyze")
	}

	frameRate := float64(down.SampleRate) / float64(e.cfg.HopSize)

	e.logger.Debug("Starting feature extraction", logging.Fields{
		"duration":    duration,
		"sample_rate": down.SampleRate,
		"frame_rate":  frameRate,
	})

	stftResult, err := spectral.NewSTFT().Compute(down.PCM, e.cfg.WindowSize, e.cfg.HopSize, down.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	tf := &TrackFeatures{
		SampleRate: down.SampleRate,
		HopSize:    e.cfg.HopSize,
		FrameRate:  frameRate,
		Duration:   duration,
	}

	tf.RMS = temporal.NewEnergy(e.cfg.WindowSize, e.cfg.HopSize).ComputeRMS(down.PCM)
	tf.SpectralContrast = spectral.NewSpectralContrast(e.cfg.ContrastBands, e.cfg.ContrastFMin).ComputeBandMean(stftResult)
	tf.SpectralFlux = spectral.NewSpectralFlux().Compute(stftResult.Magnitude)
	tf.MeanSpectrum = stftResult.BandMean()
	tf.SpectralCentroid = spectral.NewSpectralCentroid().Compute(stftResult)
	tf.SpectralBandwidth = spectral.NewSpectralBandwidth().Compute(stftResult)

	// Rhythm comes from the half-wave rectified flux envelope
	tf.OnsetEnvelope = spectral.NewSpectralFlux().ComputeOnsetStrength(stftResult.Magnitude)
	tf.Tempo, tf.BeatFrames = temporal.NewBeatTracker().Track(tf.OnsetEnvelope, frameRate)
	tf.OnsetFrames = temporal.NewOnsetDetection().Detect(common.PeakNormalize(tf.OnsetEnvelope), frameRate)

	// Harmonic/percussive split for buildup and drop analysis
	separated := spectral.NewHPSS().Separate(stftResult)
	tf.HarmonicRMS = spectral.FrameRMS(separated.Harmonic, e.cfg.WindowSize)
	tf.PercussiveRMS = spectral.FrameRMS(separated.Percussive, e.cfg.WindowSize)

	chromaCalc := chroma.NewChromaSTFT()
	tf.Chroma = chromaCalc.Compute(stftResult)
	tf.DominantPitch = chromaCalc.DominantPitchClass(tf.Chroma)

	tf.MFCC, err = spectral.NewMFCC(down.SampleRate, e.cfg.MFCCCoefficients).ComputeMatrix(stftResult)
	if err != nil {
		return nil, fmt.Errorf("mfcc: %w", err)
	}

	e.logger.Debug("Feature extraction completed", logging.Fields{
		"frames": tf.NumFrames(),
		"tempo":  tf.Tempo,
		"beats":  len(tf.BeatFrames),
		"onsets": len(tf.OnsetFrames),
	})

	return tf, nil
}
