package chroma

import (
	"math"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/spectral"
)

// ChromaSTFT folds a magnitude spectrogram onto the 12 pitch classes.
// Each frequency bin contributes its energy to the nearest semitone's class,
// giving a compact view of harmonic content over time.
type ChromaSTFT struct {
	numBins int
	fMin    float64
	fMax    float64
}

// NewChromaSTFT creates a chroma calculator over the 12-tone pitch classes
func NewChromaSTFT() *ChromaSTFT {
	return &ChromaSTFT{
		numBins: 12,
		fMin:    32.70, // C1
		fMax:    8000.0,
	}
}

// Compute returns a time x 12 pitch-class energy matrix. Pitch class 0 is C.
func (c *ChromaSTFT) Compute(result *spectral.STFTResult) [][]float64 {
	out := make([][]float64, result.TimeFrames)

	// Precompute bin -> pitch class mapping
	classOf := make([]int, result.FreqBins)
	for b := range classOf {
		classOf[b] = -1
		freq := result.BinFrequency(b)
		if freq < c.fMin || freq > c.fMax {
			continue
		}
		semitone := int(math.Round(12.0 * math.Log2(freq/c.fMin)))
		classOf[b] = semitone % c.numBins
	}

	for t, frame := range result.Magnitude {
		out[t] = make([]float64, c.numBins)
		for b, mag := range frame {
			if classOf[b] >= 0 {
				out[t][classOf[b]] += mag * mag
			}
		}
	}

	return out
}

// DominantPitchClass returns the strongest pitch class per frame
func (c *ChromaSTFT) DominantPitchClass(chromagram [][]float64) []int {
	out := make([]int, len(chromagram))
	for t, classes := range chromagram {
		best := 0
		for pc, v := range classes {
			if v > classes[best] {
				best = pc
			}
		}
		out[t] = best
	}
	return out
}
