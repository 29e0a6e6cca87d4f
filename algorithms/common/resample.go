package common

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// ResampleFourier resamples data to numSamples points using the Fourier
// method (band-limited resampling): forward FFT, spectrum truncation or
// zero-padding, inverse FFT. Matches scipy.signal.resample behavior.
func ResampleFourier(data []float64, numSamples int) []float64 {
	n := len(data)
	if numSamples <= 0 {
		return []float64{}
	}
	if n == 0 {
		return make([]float64, numSamples)
	}
	if n == numSamples {
		out := make([]float64, n)
		copy(out, data)
		return out
	}

	spectrum := fft.FFTReal(data)

	resized := make([]complex128, numSamples)
	keep := n
	if numSamples < n {
		keep = numSamples
	}
	half := keep / 2

	// Lowest positive and negative frequencies survive the resize
	for i := 0; i <= half; i++ {
		resized[i] = spectrum[i]
	}
	for i := 1; i <= half; i++ {
		resized[numSamples-i] = spectrum[n-i]
	}
	if keep%2 == 0 {
		if numSamples < n {
			// Downsampling folds the symmetric component onto the new Nyquist bin
			resized[half] = spectrum[half] + spectrum[n-half]
		} else {
			// Upsampling splits the old Nyquist bin across both halves
			resized[half] = spectrum[half] / 2
			resized[numSamples-half] = spectrum[half] / 2
		}
	}

	timeDomain := fft.IFFT(resized)

	scale := float64(numSamples) / float64(n)
	out := make([]float64, numSamples)
	for i, c := range timeDomain {
		out[i] = real(c) * scale
	}

	return out
}

// ResampleLinear interpolates data onto numSamples evenly spaced points over
// the same span (np.interp over matched time bases)
func ResampleLinear(data []float64, numSamples int) []float64 {
	if numSamples <= 0 {
		return []float64{}
	}

	out := make([]float64, numSamples)
	if len(data) == 0 {
		return out
	}
	if len(data) == 1 {
		for i := range out {
			out[i] = data[0]
		}
		return out
	}

	srcStep := float64(len(data)-1) / float64(max(numSamples-1, 1))
	for i := range out {
		pos := float64(i) * srcStep
		j := int(math.Floor(pos))
		if j >= len(data)-1 {
			out[i] = data[len(data)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = data[j] + frac*(data[j+1]-data[j])
	}

	return out
}
