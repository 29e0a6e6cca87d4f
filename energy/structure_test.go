package energy

import (
	"testing"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/algorithms/stats"
)

// failingPartitioner always reports clustering as unavailable
type failingPartitioner struct{}

func (failingPartitioner) Partition(data [][]float64, k int) stats.PartitionOutcome {
	return stats.PartitionOutcome{Reason: "forced failure"}
}

// blockMFCC builds frames in two timbrally distinct halves
func blockMFCC(n, dim int) [][]float64 {
	mfcc := make([][]float64, n)
	for i := range mfcc {
		row := make([]float64, dim)
		base := 0.0
		if i >= n/2 {
			base = 10.0
		}
		for d := range row {
			row[d] = base + float64(d)*0.01
		}
		mfcc[i] = row
	}
	return mfcc
}

func TestSegmentClusteringFindsBlockBoundary(t *testing.T) {
	cfg := DefaultPipelineConfig()
	seg := NewSegmenter(cfg, SeededPartitioner{Seed: cfg.ClusterSeed})

	duration := 60.0
	n := int(duration * testFrameRate)
	mfcc := blockMFCC(n, 13)
	composite := make([]float64, n)

	boundaries := seg.Segment(mfcc, composite, duration, testFrameRate)

	if len(boundaries) != 1 {
		t.Fatalf("expected one boundary between the two blocks, got %v", boundaries)
	}
	mid := duration / 2
	if boundaries[0] < mid-3 || boundaries[0] > mid+3 {
		t.Errorf("boundary at %f s, want near %f s", boundaries[0], mid)
	}
}

func TestSegmentKeepsSingleOffCenterClusterBoundary(t *testing.T) {
	cfg := DefaultPipelineConfig()
	seg := NewSegmenter(cfg, SeededPartitioner{Seed: cfg.ClusterSeed})

	// A two-section track whose timbral change sits well off center. The
	// clustering path finds exactly one boundary there; that boundary must
	// survive rather than being replaced by synthetic even spacing.
	duration := 70.0
	n := int(duration * testFrameRate)
	change := int(21.0 * testFrameRate)
	mfcc := make([][]float64, n)
	for i := range mfcc {
		row := make([]float64, 13)
		base := 0.0
		if i >= change {
			base = 10.0
		}
		for d := range row {
			row[d] = base + float64(d)*0.01
		}
		mfcc[i] = row
	}
	composite := make([]float64, n)

	boundaries := seg.Segment(mfcc, composite, duration, testFrameRate)

	if len(boundaries) != 1 {
		t.Fatalf("expected the single cluster boundary, got %v", boundaries)
	}
	if boundaries[0] < 18 || boundaries[0] > 24 {
		t.Errorf("boundary at %f s, want near 21 s", boundaries[0])
	}
}

func TestSegmentDeterministic(t *testing.T) {
	cfg := DefaultPipelineConfig()
	duration := 60.0
	n := int(duration * testFrameRate)
	mfcc := blockMFCC(n, 13)
	composite := make([]float64, n)

	a := NewSegmenter(cfg, SeededPartitioner{Seed: cfg.ClusterSeed}).Segment(mfcc, composite, duration, testFrameRate)
	b := NewSegmenter(cfg, SeededPartitioner{Seed: cfg.ClusterSeed}).Segment(mfcc, composite, duration, testFrameRate)

	if len(a) != len(b) {
		t.Fatalf("boundary counts differ: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("boundary %d differs: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestSegmentNoveltyFallback(t *testing.T) {
	cfg := DefaultPipelineConfig()
	seg := NewSegmenter(cfg, failingPartitioner{})

	// Composite with two sharp level changes 20 s apart
	duration := 60.0
	n := int(duration * testFrameRate)
	composite := make([]float64, n)
	for i := range composite {
		switch {
		case i < n/3:
			composite[i] = 0.1
		case i < 2*n/3:
			composite[i] = 0.8
		default:
			composite[i] = 0.2
		}
	}
	mfcc := blockMFCC(n, 13)

	boundaries := seg.Segment(mfcc, composite, duration, testFrameRate)

	if len(boundaries) != 2 {
		t.Fatalf("expected two novelty boundaries, got %v", boundaries)
	}
	if boundaries[0] < 17 || boundaries[0] > 23 {
		t.Errorf("first boundary at %f s, want near 20 s", boundaries[0])
	}
	if boundaries[1] < 37 || boundaries[1] > 43 {
		t.Errorf("second boundary at %f s, want near 40 s", boundaries[1])
	}
}

func TestSegmentEvenSpacingLastResort(t *testing.T) {
	cfg := DefaultPipelineConfig()
	seg := NewSegmenter(cfg, failingPartitioner{})

	// Flat composite has no novelty peaks
	duration := 100.0
	n := int(duration * testFrameRate)
	composite := make([]float64, n)
	mfcc := blockMFCC(n, 13)

	boundaries := seg.Segment(mfcc, composite, duration, testFrameRate)

	if len(boundaries) == 0 {
		t.Fatal("no boundaries synthesized")
	}
	prev := 0.0
	for _, b := range boundaries {
		if b <= prev || b >= duration {
			t.Fatalf("boundary %f not strictly increasing inside (0, %f)", b, duration)
		}
		prev = b
	}
}

func TestSegmentShortTrack(t *testing.T) {
	cfg := DefaultPipelineConfig()
	seg := NewSegmenter(cfg, failingPartitioner{})

	duration := 40.0
	n := int(duration * testFrameRate)
	composite := make([]float64, n)

	boundaries := seg.Segment(nil, composite, duration, testFrameRate)

	if len(boundaries) != 1 || boundaries[0] != duration/2 {
		t.Fatalf("short flat track should get a single midpoint boundary, got %v", boundaries)
	}
}

func TestSmoothLabels(t *testing.T) {
	labels := []int{0, 0, 1, 0, 0, 1, 1, 1, 0, 1, 1}
	out := smoothLabels(labels, 5)

	if out[2] != 0 {
		t.Errorf("isolated label at 2 survived: %d", out[2])
	}
	if out[8] != 1 {
		t.Errorf("isolated label at 8 survived: %d", out[8])
	}
	if labels[2] != 1 {
		t.Error("input mutated")
	}
}
