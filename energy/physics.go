package energy

import (
	"math"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/filters"
)

// ApplyMomentum limits how fast the energy curve may change between
// adjacent frames, modeling a coaster car that cannot teleport. The
// allowed step grows with the current energy level, so loud passages may
// swing harder than quiet ones. The clamp runs causally: each frame is
// limited relative to the already-clamped previous frame, which lets a
// large jump play out as a steep but continuous ramp.
//
// After clamping, a Savitzky-Golay filter rounds off the hard corners the
// clamp introduces. Short curves skip the polynomial pass entirely rather
// than shrink its window.
func ApplyMomentum(combined []float64, cfg *PipelineConfig) []float64 {
	n := len(combined)
	out := make([]float64, n)
	copy(out, combined)

	for i := 1; i < n; i++ {
		maxChange := cfg.MaxChangePerFrame * (1.0 + combined[i])
		change := out[i] - out[i-1]
		if math.Abs(change) > maxChange {
			if change > 0 {
				out[i] = out[i-1] + maxChange
			} else {
				out[i] = out[i-1] - maxChange
			}
		}
	}

	if n > cfg.SavGolWindow {
		sg, err := filters.NewSavitzkyGolay(cfg.SavGolWindow, cfg.SavGolOrder)
		if err == nil {
			out = sg.Apply(out)
		}
	}

	return out
}
