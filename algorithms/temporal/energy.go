package temporal

import (
	"math"
)

// Energy computes frame-level energy features over centered, overlapping
// windows of the waveform
type Energy struct {
	frameSize int
	hopSize   int
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize, hopSize int) *Energy {
	return &Energy{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// ComputeRMS calculates root-mean-square energy per frame. Frames are
// centered on multiples of the hop size with zero padding past the edges, so
// the stream has 1 + len(signal)/hopSize frames.
func (e *Energy) ComputeRMS(signal []float64) []float64 {
	if len(signal) == 0 || e.hopSize <= 0 || e.frameSize <= 0 {
		return []float64{}
	}

	numFrames := len(signal)/e.hopSize + 1
	rms := make([]float64, numFrames)
	half := e.frameSize / 2

	for i := 0; i < numFrames; i++ {
		center := i * e.hopSize
		sumSquares := 0.0
		for j := center - half; j < center+half; j++ {
			if j >= 0 && j < len(signal) {
				sumSquares += signal[j] * signal[j]
			}
		}
		rms[i] = math.Sqrt(sumSquares / float64(e.frameSize))
	}

	return rms
}
