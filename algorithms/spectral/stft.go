package spectral

import (
	"fmt"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/window"
)

// STFT provides Short-Time Fourier Transform functionality for the analysis
// pipeline. Frames are centered on their timestamps with reflect padding, so
// every per-frame feature stream derived from the same hop size has
// 1 + len(signal)/hopSize frames regardless of the window size.
type STFT struct{}

// STFTResult holds the magnitude spectrogram of a signal
type STFTResult struct {
	Magnitude      [][]float64 `json:"magnitude"` // Time x Frequency magnitude matrix
	TimeFrames     int         `json:"time_frames"`
	FreqBins       int         `json:"freq_bins"`
	SampleRate     int         `json:"sample_rate"`
	WindowSize     int         `json:"window_size"`
	HopSize        int         `json:"hop_size"`
	FreqResolution float64     `json:"freq_resolution"` // Hz per bin
	TimeResolution float64     `json:"time_resolution"` // seconds per frame
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{}
}

// Compute computes the magnitude spectrogram with a Hann window and parallel
// frame processing
func (s *STFT) Compute(signal []float64, windowSize, hopSize, sampleRate int) (*STFTResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}
	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	numFrames := len(signal)/hopSize + 1
	freqBins := windowSize/2 + 1
	half := windowSize / 2

	hann := make([]float64, windowSize)
	for i := range hann {
		hann[i] = 1.0
	}
	hann = window.Hann(hann)

	magnitude := make([][]float64, numFrames)
	for i := range magnitude {
		magnitude[i] = make([]float64, freqBins)
	}

	numWorkers := min(runtime.NumCPU(), numFrames)
	jobs := make(chan int, numFrames)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			frame := make([]float64, windowSize)
			for frameIdx := range jobs {
				center := frameIdx * hopSize
				for k := 0; k < windowSize; k++ {
					frame[k] = sampleReflected(signal, center-half+k) * hann[k]
				}

				spectrum := fft.FFTReal(frame)
				for b := 0; b < freqBins; b++ {
					magnitude[frameIdx][b] = cmplx.Abs(spectrum[b])
				}
			}
		}()
	}

	for i := 0; i < numFrames; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return &STFTResult{
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: float64(sampleRate) / float64(windowSize),
		TimeResolution: float64(hopSize) / float64(sampleRate),
	}, nil
}

// BinFrequency returns the center frequency of a spectrogram bin
func (r *STFTResult) BinFrequency(bin int) float64 {
	return float64(bin) * r.FreqResolution
}

// BandMean averages the spectrogram across frequency, one value per frame
func (r *STFTResult) BandMean() []float64 {
	out := make([]float64, r.TimeFrames)
	for t, frame := range r.Magnitude {
		sum := 0.0
		for _, v := range frame {
			sum += v
		}
		out[t] = sum / float64(len(frame))
	}
	return out
}

// sampleReflected reads a signal with symmetric edge reflection so centered
// frames near the boundaries stay full-length
func sampleReflected(signal []float64, i int) float64 {
	n := len(signal)
	if n == 1 {
		return signal[0]
	}
	period := 2*n - 2
	i = ((i % period) + period) % period
	if i >= n {
		i = period - i
	}
	return signal[i]
}
