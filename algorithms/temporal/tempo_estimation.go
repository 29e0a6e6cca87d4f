package temporal

import (
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/common"
)

// TempoEstimation estimates tempo from an onset strength envelope via
// autocorrelation: periodic onsets produce a strong correlation peak at the
// lag of one beat period.
type TempoEstimation struct {
	minBPM float64
	maxBPM float64
}

// NewTempoEstimation creates a tempo estimator covering the common range of
// popular music
func NewTempoEstimation() *TempoEstimation {
	return &TempoEstimation{
		minBPM: 60.0,
		maxBPM: 200.0,
	}
}

// EstimateFromOnsets returns the estimated tempo in BPM given an onset
// strength envelope and its frame rate. Degenerate envelopes fall back to
// 120 BPM so downstream beat math stays defined.
func (te *TempoEstimation) EstimateFromOnsets(onsetEnvelope []float64, framesPerSecond float64) float64 {
	const fallbackBPM = 120.0

	if len(onsetEnvelope) < 4 || framesPerSecond <= 0 {
		return fallbackBPM
	}

	minLag := int(framesPerSecond * 60.0 / te.maxBPM)
	maxLag := int(framesPerSecond * 60.0 / te.minBPM)
	if maxLag >= len(onsetEnvelope) {
		maxLag = len(onsetEnvelope) - 1
	}
	if minLag < 1 || minLag >= maxLag {
		return fallbackBPM
	}

	// Zero-mean the envelope so sustained loudness does not dominate
	mean := common.Mean(onsetEnvelope)
	centered := make([]float64, len(onsetEnvelope))
	for i, v := range onsetEnvelope {
		centered[i] = v - mean
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		corr := 0.0
		for i := 0; i+lag < len(centered); i++ {
			corr += centered[i] * centered[i+lag]
		}
		corr /= float64(len(centered) - lag)
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr <= 0 {
		return fallbackBPM
	}

	return 60.0 * framesPerSecond / float64(bestLag)
}
