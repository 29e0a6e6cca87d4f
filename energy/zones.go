package energy

import (
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/common"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/filters"
)

// ClassifyZones assigns a zone label to every output frame, one decision
// per bar so labels never flip mid-bar. Each bar is judged on its mean
// energy, its peak, and the mean of the smoothed energy derivative; the
// checks run in priority order, with drop outranking everything and
// bridge as the catch-all for mid-level steady bars.
//
// barTimes are the bar start times in seconds. A track with no usable bar
// grid classifies as a single quiet-by-default region.
func ClassifyZones(energy []float64, barTimes []float64, cfg *PipelineConfig) []Zone {
	n := len(energy)
	labels := make([]int, n)

	deriv := common.Gradient(energy)
	deriv = filters.Gaussian(deriv, cfg.DerivativeSigma)

	var barFrames []int
	for _, t := range barTimes {
		f := int(t * float64(cfg.TargetFPS))
		if f < n {
			barFrames = append(barFrames, f)
		}
	}

	for i, start := range barFrames {
		end := n
		if i+1 < len(barFrames) {
			end = barFrames[i+1]
		}
		if start >= end {
			continue
		}

		zone := classifyBar(energy[start:end], deriv[start:end], cfg)
		for f := start; f < end; f++ {
			labels[f] = int(zone)
		}
	}

	labels = filters.NewMedianFilter(cfg.ZoneMedianWindow).ApplyInt(labels)

	zones := make([]Zone, n)
	for i, l := range labels {
		zones[i] = Zone(l)
	}
	return zones
}

func classifyBar(seg, derivSeg []float64, cfg *PipelineConfig) Zone {
	mean := common.Mean(seg)
	peak := common.Max(seg)
	trend := common.Mean(derivSeg)

	switch {
	case peak > cfg.HighThreshold && trend > 0:
		return ZoneDrop
	case trend > cfg.IncreasingThreshold:
		return ZoneBuildup
	case trend < cfg.DecreasingThreshold:
		return ZoneDecay
	case mean > cfg.MediumThreshold:
		return ZoneSustained
	case mean < cfg.LowThreshold:
		return ZoneQuiet
	default:
		return ZoneBridge
	}
}

// BarBoundaries derives the bar grid from the beat times by taking every
// fourth beat as a downbeat
func BarBoundaries(beatTimes []float64, cfg *PipelineConfig) []float64 {
	var bars []float64
	for i := 0; i < len(beatTimes); i += cfg.BeatsPerBar {
		bars = append(bars, beatTimes[i])
	}
	return bars
}
