package energy

import (
	"fmt"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/common"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/features"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/logging"
)

// Pipeline turns extracted track features into a StructureBundle: the
// fixed-rate energy curve plus the semantic layers (zones, bars, sections,
// drops, onsets, spectral color) that the animation consumes.
//
// Stages run in a fixed order: conditioning, event detection, synthesis,
// momentum limiting, smoothing and resampling, then zone classification
// and structure segmentation over the results. Given the same features
// and config the output is bit-identical between runs.
type Pipeline struct {
	cfg       *PipelineConfig
	segmenter *Segmenter
	logger    logging.Logger
}

// NewPipeline creates a pipeline with the default seeded partitioner
func NewPipeline(cfg *PipelineConfig) *Pipeline {
	if cfg == nil {
		cfg = DefaultPipelineConfig()
	}
	return NewPipelineWithPartitioner(cfg, SeededPartitioner{Seed: cfg.ClusterSeed})
}

// NewPipelineWithPartitioner creates a pipeline with a custom clustering
// backend, mainly for tests that need to force the segmentation fallback
func NewPipelineWithPartitioner(cfg *PipelineConfig, p Partitioner) *Pipeline {
	if cfg == nil {
		cfg = DefaultPipelineConfig()
	}
	return &Pipeline{
		cfg:       cfg,
		segmenter: NewSegmenter(cfg, p),
		logger:    logging.GetGlobalLogger(),
	}
}

// Analyze runs the full pipeline over one track's features
func (p *Pipeline) Analyze(tf *features.TrackFeatures) (*StructureBundle, error) {
	if tf == nil || tf.NumFrames() == 0 {
		return nil, fmt.Errorf("analyze: no feature frames")
	}

	p.logger.Info("analysis started", logging.Fields{
		"duration": tf.Duration,
		"frames":   tf.NumFrames(),
		"tempo":    tf.Tempo,
	})

	conditioned := Condition(tf, p.cfg)

	detector := NewEventDetector(p.cfg)
	buildupStream, buildups := detector.DetectBuildups(conditioned.SpectralTrend, tf.FrameRate)
	dropStream, dropTimes := detector.DetectDrops(conditioned.PercussiveRMS, buildupStream, tf.Tempo, tf.FrameRate)

	composite := Synthesize(conditioned, buildupStream, dropStream, p.cfg)
	limited := ApplyMomentum(composite, p.cfg)
	energy := SmoothAndResample(limited, tf.Duration, p.cfg)

	beatTimes := make([]float64, len(tf.BeatFrames))
	for i, f := range tf.BeatFrames {
		beatTimes[i] = tf.FrameToTime(f)
	}
	bars := BarBoundaries(beatTimes, p.cfg)

	zones := ClassifyZones(energy, bars, p.cfg)
	sections := p.segmenter.Segment(tf.MFCC, composite, tf.Duration, tf.FrameRate)

	onsets := make([]float64, len(tf.OnsetFrames))
	for i, f := range tf.OnsetFrames {
		onsets[i] = tf.FrameToTime(f)
	}

	numFrames := len(energy)
	times := make([]float64, numFrames)
	for i := range times {
		times[i] = float64(i) / float64(p.cfg.TargetFPS)
	}

	bundle := &StructureBundle{
		Energy:            energy,
		Zones:             zones,
		Times:             times,
		BarBoundaries:     bars,
		SectionBoundaries: sections,
		DropLocations:     dropTimes,
		OnsetTimes:        onsets,
		Buildups:          buildups,
		SpectralCentroid:  common.ResampleLinear(conditioned.Centroid, numFrames),
		SpectralBandwidth: common.ResampleLinear(conditioned.Bandwidth, numFrames),
		ChromaHue:         common.ResampleLinear(chromaHue(tf.DominantPitch), numFrames),
		Duration:          tf.Duration,
		Tempo:             tf.Tempo,
		TargetFPS:         p.cfg.TargetFPS,
	}

	p.logger.Info("analysis complete", logging.Fields{
		"frames":   numFrames,
		"drops":    len(dropTimes),
		"sections": len(sections),
		"bars":     len(bars),
	})
	return bundle, nil
}

// chromaHue maps the dominant pitch class of each frame onto [0,1) for
// use as a color hue
func chromaHue(pitch []int) []float64 {
	hue := make([]float64, len(pitch))
	for i, p := range pitch {
		hue[i] = float64(p) / 12.0
	}
	return hue
}
