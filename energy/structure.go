package energy

import (
	"math"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/common"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/filters"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/stats"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/logging"
)

// Partitioner groups feature frames into k clusters. Implementations must
// report failure through the outcome variant rather than panic, so the
// segmenter can fall back to its novelty heuristic.
type Partitioner interface {
	Partition(data [][]float64, k int) stats.PartitionOutcome
}

// SeededPartitioner runs k-means with a fixed random seed so the same
// track always segments the same way
type SeededPartitioner struct {
	Seed int64
}

func (p SeededPartitioner) Partition(data [][]float64, k int) stats.PartitionOutcome {
	return stats.NewKMeans(k, p.Seed).Partition(data)
}

// Segmenter finds section boundaries: the timestamps where the track moves
// between verses, choruses, breakdowns and so on. The primary path
// clusters MFCC frames and reads boundaries off label changes; when
// clustering is unavailable it falls back to novelty peaks in the
// composite energy, and as a last resort synthesizes evenly spaced
// sections so callers always get a usable grid.
type Segmenter struct {
	cfg         *PipelineConfig
	partitioner Partitioner
	logger      logging.Logger
}

// NewSegmenter creates a segmenter backed by the given partitioner
func NewSegmenter(cfg *PipelineConfig, p Partitioner) *Segmenter {
	return &Segmenter{
		cfg:         cfg,
		partitioner: p,
		logger:      logging.GetGlobalLogger(),
	}
}

// Segment returns section boundary times in seconds, strictly increasing
// and never empty. mfcc holds one coefficient vector per native frame;
// composite is the pre-momentum energy signal on the same grid.
func (s *Segmenter) Segment(mfcc [][]float64, composite []float64, duration, frameRate float64) []float64 {
	boundaries := s.clusterBoundaries(mfcc, duration, frameRate)
	if boundaries == nil {
		boundaries = s.noveltyBoundaries(composite, duration, frameRate)
		if len(boundaries) < 2 {
			boundaries = s.evenBoundaries(duration)
		}
	}
	return sanitizeBoundaries(boundaries, duration)
}

// clusterBoundaries is the primary path. Returns nil when clustering is
// unavailable or degenerate, which routes the caller to the fallback.
func (s *Segmenter) clusterBoundaries(mfcc [][]float64, duration, frameRate float64) []float64 {
	maxClusters := s.cfg.MaxClusters
	if limit := len(mfcc) / s.cfg.FramesPerCluster; limit < maxClusters {
		maxClusters = limit
	}
	if maxClusters < 2 {
		s.logger.Warn("track too short for clustering", logging.Fields{
			"frames": len(mfcc),
		})
		return nil
	}

	k := int(math.Round(duration / s.cfg.SectionSeconds))
	if k < 2 {
		k = 2
	}
	if k > maxClusters {
		k = maxClusters
	}

	outcome := s.partitioner.Partition(mfcc, k)
	if !outcome.Available() {
		s.logger.Warn("clustering unavailable, using novelty fallback", logging.Fields{
			"reason": outcome.Reason,
		})
		return nil
	}

	labels := smoothLabels(outcome.Labels, s.cfg.LabelSmoothingPasses)

	var boundaries []float64
	for i := 1; i < len(labels); i++ {
		if labels[i] != labels[i-1] {
			boundaries = append(boundaries, float64(i)/frameRate)
		}
	}
	if len(boundaries) == 0 {
		s.logger.Warn("clustering produced a single section, using novelty fallback")
		return nil
	}

	s.logger.Debug("structure segmented by clustering", logging.Fields{
		"clusters":   k,
		"boundaries": len(boundaries),
	})
	return boundaries
}

// noveltyBoundaries places boundaries at peaks of the energy change rate
func (s *Segmenter) noveltyBoundaries(composite []float64, duration, frameRate float64) []float64 {
	smoothed := filters.Gaussian(composite, s.cfg.FallbackSigma)

	novelty := common.Diff(smoothed)
	for i := range novelty {
		novelty[i] = math.Abs(novelty[i])
	}
	if peak := common.Max(novelty); peak > 0 {
		for i := range novelty {
			novelty[i] /= peak
		}
	}

	minDistance := int(s.cfg.FallbackPeakSpacingSec * frameRate)
	peaks := common.FindPeaks(novelty, s.cfg.FallbackPeakHeight, minDistance)

	boundaries := make([]float64, 0, len(peaks))
	for _, p := range peaks {
		boundaries = append(boundaries, float64(p)/frameRate)
	}

	s.logger.Debug("structure segmented by novelty", logging.Fields{
		"boundaries": len(boundaries),
	})
	return boundaries
}

// evenBoundaries is the last resort: sections of roughly equal length,
// kept clear of the intro and outro
func (s *Segmenter) evenBoundaries(duration float64) []float64 {
	numSections := int(duration / s.cfg.FallbackSectionSeconds)
	if numSections < 2 {
		numSections = 2
	}

	lo := s.cfg.FallbackEdgeSeconds
	hi := duration - s.cfg.FallbackEdgeSeconds
	if hi <= lo {
		return []float64{duration / 2}
	}

	count := numSections - 1
	boundaries := make([]float64, count)
	if count == 1 {
		boundaries[0] = lo
	} else {
		step := (hi - lo) / float64(count-1)
		for i := range boundaries {
			boundaries[i] = lo + float64(i)*step
		}
	}
	return boundaries
}

// smoothLabels runs majority voting over 3-frame neighborhoods: a frame
// whose neighbors agree with each other but not with it takes their label
func smoothLabels(labels []int, passes int) []int {
	out := make([]int, len(labels))
	copy(out, labels)

	for p := 0; p < passes; p++ {
		for i := 1; i < len(out)-1; i++ {
			if out[i-1] == out[i+1] && out[i] != out[i-1] {
				out[i] = out[i-1]
			}
		}
	}
	return out
}

// sanitizeBoundaries clamps boundaries inside the track and drops any
// that do not strictly increase
func sanitizeBoundaries(boundaries []float64, duration float64) []float64 {
	out := make([]float64, 0, len(boundaries))
	prev := 0.0
	for _, b := range boundaries {
		if b <= prev || b >= duration {
			continue
		}
		out = append(out, b)
		prev = b
	}
	if len(out) == 0 {
		out = append(out, duration/2)
	}
	return out
}
