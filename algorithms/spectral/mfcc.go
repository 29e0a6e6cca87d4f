package spectral

import (
	"fmt"
	"math"
)

// MFCC computes Mel-Frequency Cepstral Coefficients, the compact timbre
// descriptor used for structural segmentation: frames from the same song
// section land close together in MFCC space.
type MFCC struct {
	numCoefficients int
	numMelFilters   int
	sampleRate      int

	melScale   *MelScale
	filterBank [][]float64
	dctMatrix  [][]float64
	fftSize    int
}

// NewMFCC creates an MFCC computer with the standard 26-filter mel bank
func NewMFCC(sampleRate, numCoefficients int) *MFCC {
	if numCoefficients <= 0 {
		numCoefficients = 13
	}
	return &MFCC{
		numCoefficients: numCoefficients,
		numMelFilters:   26,
		sampleRate:      sampleRate,
		melScale:        NewMelScale(),
	}
}

func (m *MFCC) initialize(fftSize int) error {
	m.filterBank = m.melScale.CreateFilterBank(
		m.numMelFilters, fftSize, m.sampleRate, 0.0, float64(m.sampleRate)/2.0)
	if len(m.filterBank) == 0 {
		return fmt.Errorf("failed to create mel filter bank for fft size %d", fftSize)
	}

	// Orthonormal DCT-II
	m.dctMatrix = make([][]float64, m.numCoefficients)
	for i := range m.dctMatrix {
		m.dctMatrix[i] = make([]float64, m.numMelFilters)
		scale := math.Sqrt(2.0 / float64(m.numMelFilters))
		if i == 0 {
			scale = math.Sqrt(1.0 / float64(m.numMelFilters))
		}
		for j := range m.dctMatrix[i] {
			m.dctMatrix[i][j] = scale * math.Cos(math.Pi*float64(i)*(float64(j)+0.5)/float64(m.numMelFilters))
		}
	}

	m.fftSize = fftSize
	return nil
}

// ComputeMatrix calculates MFCCs for every frame of a spectrogram, returning
// a time x coefficient matrix
func (m *MFCC) ComputeMatrix(result *STFTResult) ([][]float64, error) {
	if result.TimeFrames == 0 {
		return nil, fmt.Errorf("empty spectrogram")
	}

	if m.fftSize != result.WindowSize {
		if err := m.initialize(result.WindowSize); err != nil {
			return nil, err
		}
	}

	out := make([][]float64, result.TimeFrames)
	power := make([]float64, result.FreqBins)

	for t, frame := range result.Magnitude {
		for b, mag := range frame {
			power[b] = mag * mag
		}

		melSpectrum := m.melScale.ApplyFilterBank(power, m.filterBank)
		for i, v := range melSpectrum {
			melSpectrum[i] = math.Log(v + 1e-10)
		}

		coeffs := make([]float64, m.numCoefficients)
		for i := range coeffs {
			for j, v := range melSpectrum {
				coeffs[i] += m.dctMatrix[i][j] * v
			}
		}
		out[t] = coeffs
	}

	return out, nil
}
