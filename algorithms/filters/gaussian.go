package filters

import (
	"math"
)

// GaussianSmoother implements one-dimensional Gaussian smoothing by direct
// convolution with a truncated Gaussian kernel.
//
// The kernel is truncated at 4 standard deviations and the signal is
// reflect-padded at the boundaries, matching scipy.ndimage.gaussian_filter1d
// with its default truncate and mode settings.
//
// References:
//   - R.C. Gonzalez, R.E. Woods, "Digital Image Processing", Chapter 3
//     (Gaussian kernels and separable smoothing)
type GaussianSmoother struct {
	sigma  float64
	kernel []float64
	radius int
}

// NewGaussianSmoother creates a Gaussian smoother with the given standard
// deviation expressed in samples
func NewGaussianSmoother(sigma float64) *GaussianSmoother {
	g := &GaussianSmoother{sigma: sigma}
	g.buildKernel()
	return g
}

// Sigma returns the standard deviation of the smoothing kernel
func (g *GaussianSmoother) Sigma() float64 {
	return g.sigma
}

func (g *GaussianSmoother) buildKernel() {
	if g.sigma <= 0 {
		g.radius = 0
		g.kernel = []float64{1.0}
		return
	}

	g.radius = int(g.sigma*4.0 + 0.5)
	g.kernel = make([]float64, 2*g.radius+1)

	sum := 0.0
	for i := -g.radius; i <= g.radius; i++ {
		w := math.Exp(-0.5 * float64(i) * float64(i) / (g.sigma * g.sigma))
		g.kernel[i+g.radius] = w
		sum += w
	}
	for i := range g.kernel {
		g.kernel[i] /= sum
	}
}

// Apply smooths the signal and returns a new slice of the same length.
// Empty input passes through untouched.
func (g *GaussianSmoother) Apply(signal []float64) []float64 {
	if len(signal) == 0 || g.radius == 0 {
		out := make([]float64, len(signal))
		copy(out, signal)
		return out
	}

	out := make([]float64, len(signal))
	for i := range signal {
		acc := 0.0
		for k := -g.radius; k <= g.radius; k++ {
			acc += signal[reflectIndex(i+k, len(signal))] * g.kernel[k+g.radius]
		}
		out[i] = acc
	}

	return out
}

// Gaussian is a convenience wrapper for one-off smoothing passes
func Gaussian(signal []float64, sigma float64) []float64 {
	return NewGaussianSmoother(sigma).Apply(signal)
}

// reflectIndex maps an out-of-range index back into [0, n) using symmetric
// reflection about the edges (d c b a | a b c d | d c b a)
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i = ((i % period) + period) % period
	if i >= n {
		return period - 1 - i
	}
	return i
}
