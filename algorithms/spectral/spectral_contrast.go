package spectral

import (
	"math"
	"sort"
)

// SpectralContrast computes the peak-to-valley contrast inside octave-spaced
// sub-bands of the spectrum. Strong harmonic content yields high contrast,
// broadband noise yields low contrast.
//
// References:
//   - Jiang, D., et al. (2002). "Music type classification by spectral
//     contrast feature"
type SpectralContrast struct {
	numBands int
	fMin     float64
	quantile float64
}

// NewSpectralContrast creates a spectral contrast calculator with the given
// number of octave bands above fMin
func NewSpectralContrast(numBands int, fMin float64) *SpectralContrast {
	if numBands <= 0 {
		numBands = 6
	}
	if fMin <= 0 {
		fMin = 20.0
	}
	return &SpectralContrast{
		numBands: numBands,
		fMin:     fMin,
		quantile: 0.02,
	}
}

// Compute calculates per-band contrast for every frame, returning a
// time x band matrix
func (sc *SpectralContrast) Compute(result *STFTResult) [][]float64 {
	contrast := make([][]float64, result.TimeFrames)

	// Octave band edges: fMin, 2*fMin, 4*fMin, ...
	edges := make([]float64, sc.numBands+1)
	for i := range edges {
		edges[i] = sc.fMin * math.Pow(2.0, float64(i))
	}

	for t, frame := range result.Magnitude {
		contrast[t] = make([]float64, sc.numBands)

		for band := 0; band < sc.numBands; band++ {
			var bins []float64
			for b, mag := range frame {
				freq := result.BinFrequency(b)
				if freq >= edges[band] && freq < edges[band+1] {
					bins = append(bins, mag)
				}
			}
			if len(bins) == 0 {
				continue
			}

			sort.Float64s(bins)
			take := max(1, int(sc.quantile*float64(len(bins))))

			valley := 0.0
			peak := 0.0
			for i := 0; i < take; i++ {
				valley += bins[i]
				peak += bins[len(bins)-1-i]
			}
			valley /= float64(take)
			peak /= float64(take)

			contrast[t][band] = math.Log(peak+1e-10) - math.Log(valley+1e-10)
		}
	}

	return contrast
}

// ComputeBandMean averages contrast across bands, one value per frame
func (sc *SpectralContrast) ComputeBandMean(result *STFTResult) []float64 {
	perBand := sc.Compute(result)
	out := make([]float64, len(perBand))
	for t, bands := range perBand {
		sum := 0.0
		for _, v := range bands {
			sum += v
		}
		out[t] = sum / float64(len(bands))
	}
	return out
}
