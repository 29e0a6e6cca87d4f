package temporal

import (
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/common"
)

// OnsetDetection picks note and percussion attacks out of an onset strength
// envelope using an adaptive threshold and a refractory period
type OnsetDetection struct {
	delta       float64 // threshold offset above the local mean
	minInterval float64 // minimum spacing between onsets in seconds
}

// NewOnsetDetection creates an onset detector with standard peak-picking
// parameters
func NewOnsetDetection() *OnsetDetection {
	return &OnsetDetection{
		delta:       0.07,
		minInterval: 0.03,
	}
}

// Detect returns onset frame indices for a normalized onset strength
// envelope sampled at framesPerSecond
func (od *OnsetDetection) Detect(onsetEnvelope []float64, framesPerSecond float64) []int {
	if len(onsetEnvelope) < 3 {
		return []int{}
	}

	threshold := common.Mean(onsetEnvelope) + od.delta
	minDistance := max(1, int(od.minInterval*framesPerSecond))

	return common.FindPeaks(onsetEnvelope, threshold, minDistance)
}

// FramesToTimes converts frame indices to timestamps in seconds
func FramesToTimes(frames []int, framesPerSecond float64) []float64 {
	times := make([]float64, len(frames))
	for i, f := range frames {
		times[i] = float64(f) / framesPerSecond
	}
	return times
}
