package energy

import (
	"math"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/common"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/filters"
)

// SmoothAndResample runs the multi-stage smoothing chain that turns the
// momentum-limited curve into the final fixed-rate energy signal:
//
//  1. wide Gaussian for the overall arc
//  2. adaptive Gaussian, narrower where the curve is high so peaks keep
//     their shape while valleys get flattened
//  3. narrow Gaussian to settle the adaptive pass
//  4. full-range stretch and perceptual exponent
//  5. Fourier resample onto the output frame rate
//  6. clip to [0,1] and a final light Gaussian
//
// The returned slice has round(duration * TargetFPS) samples, all in [0,1].
func SmoothAndResample(curve []float64, duration float64, cfg *PipelineConfig) []float64 {
	smoothed := filters.Gaussian(curve, cfg.WideSigma)
	smoothed = adaptiveSmooth(smoothed, cfg)
	smoothed = filters.Gaussian(smoothed, cfg.NarrowSigma)
	smoothed = stretchAndShape(smoothed, cfg.ContrastExponent)

	numFrames := int(math.Round(duration * float64(cfg.TargetFPS)))
	if numFrames < 1 {
		numFrames = 1
	}
	resampled := common.ResampleFourier(smoothed, numFrames)

	resampled = common.Clip(resampled, 0.0, 1.0)
	return filters.Gaussian(resampled, cfg.ResampledSigma)
}

// adaptiveSmooth applies a Gaussian whose width varies with the local
// energy level: sigma shrinks toward the base value at full energy and
// widens by the span at silence. The first and last half-window samples
// are copied through unchanged.
func adaptiveSmooth(curve []float64, cfg *PipelineConfig) []float64 {
	n := len(curve)
	out := make([]float64, n)
	copy(out, curve)

	half := cfg.AdaptiveWindow / 2
	if n <= cfg.AdaptiveWindow {
		return out
	}

	for i := half; i < n-half; i++ {
		sigma := cfg.AdaptiveBaseSigma + cfg.AdaptiveSpanSigma*(1.0-curve[i])

		var sum, wsum float64
		for j := -half; j <= half; j++ {
			w := math.Exp(-0.5 * float64(j) * float64(j) / (sigma * sigma))
			sum += curve[i+j] * w
			wsum += w
		}
		out[i] = sum / wsum
	}

	return out
}

// stretchAndShape rescales the curve to span the full [0,1] range, then
// applies a sub-unity exponent that lifts the midrange the way perceived
// loudness compresses level differences. A flat curve has no range to
// stretch and passes through untouched.
func stretchAndShape(curve []float64, exponent float64) []float64 {
	n := len(curve)
	out := make([]float64, n)
	copy(out, curve)

	lo := common.Min(out)
	hi := common.Max(out)
	if hi-lo <= 0 {
		return out
	}

	for i := range out {
		v := (out[i] - lo) / (hi - lo)
		out[i] = math.Pow(v, exponent)
	}

	return out
}
