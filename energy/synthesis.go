package energy

import (
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/common"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/filters"
)

// Synthesize combines the conditioned feature streams and the two event
// intensity streams into a single composite energy signal. The weights are
// fixed: event streams dominate so that drops and buildups read clearly in
// the final curve, with loudness as the strongest continuous contributor.
// The composite is peak-normalized and lightly median filtered to knock
// out single-frame spikes without rounding off transients.
func Synthesize(c *Conditioned, buildup, drop []float64, cfg *PipelineConfig) []float64 {
	n := len(c.RMS)
	combined := make([]float64, n)

	for i := 0; i < n; i++ {
		combined[i] = cfg.WeightRMS*c.RMS[i] +
			cfg.WeightContrast*c.Contrast[i] +
			cfg.WeightFlux*c.Flux[i] +
			cfg.WeightBeat*c.BeatPulse[i] +
			cfg.WeightBuildup*buildup[i] +
			cfg.WeightDrop*drop[i]
	}

	combined = common.PeakNormalize(combined)
	return filters.Median(combined, cfg.MedianWindow)
}
