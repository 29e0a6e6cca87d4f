package energy

import (
	"math"
	"testing"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/features"
)

// syntheticTrack builds plausible features for a track of the given
// duration: a slow loudness arc, beats at 120 BPM, and a timbral shift
// halfway through
func syntheticTrack(duration float64) *features.TrackFeatures {
	n := int(duration*testFrameRate) + 1

	tf := &features.TrackFeatures{
		SampleRate: 22050,
		HopSize:    1024,
		FrameRate:  testFrameRate,
		Duration:   duration,
		Tempo:      120,
	}

	tf.RMS = make([]float64, n)
	tf.SpectralContrast = make([]float64, n)
	tf.SpectralFlux = make([]float64, n)
	tf.MeanSpectrum = make([]float64, n)
	tf.SpectralCentroid = make([]float64, n)
	tf.SpectralBandwidth = make([]float64, n)
	tf.OnsetEnvelope = make([]float64, n)
	tf.HarmonicRMS = make([]float64, n)
	tf.PercussiveRMS = make([]float64, n)
	tf.DominantPitch = make([]int, n)
	tf.MFCC = make([][]float64, n)

	for i := 0; i < n; i++ {
		phase := float64(i) / float64(n)
		arc := 0.3 + 0.5*math.Sin(phase*math.Pi)

		tf.RMS[i] = arc
		tf.SpectralContrast[i] = 10 + 5*arc
		tf.SpectralFlux[i] = 0.2 * arc
		tf.MeanSpectrum[i] = 0.5 + 0.3*arc
		tf.SpectralCentroid[i] = 2000 + 1000*arc
		tf.SpectralBandwidth[i] = 1500 + 500*arc
		tf.HarmonicRMS[i] = 0.8 * arc
		tf.PercussiveRMS[i] = 0.5 * arc
		tf.DominantPitch[i] = i % 12

		row := make([]float64, 13)
		base := 0.0
		if phase > 0.5 {
			base = 8.0
		}
		for d := range row {
			row[d] = base + arc*float64(d)*0.1
		}
		tf.MFCC[i] = row
	}

	beatInterval := 60.0 / tf.Tempo * testFrameRate
	for f := 0.0; int(f) < n; f += beatInterval {
		tf.BeatFrames = append(tf.BeatFrames, int(f))
	}
	for f := 0; f < n; f += int(4 * testFrameRate) {
		tf.OnsetFrames = append(tf.OnsetFrames, f)
	}

	return tf
}

func TestPipelineOutputContract(t *testing.T) {
	duration := 60.0
	bundle, err := NewPipeline(nil).Analyze(syntheticTrack(duration))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	cfg := DefaultPipelineConfig()
	want := int(math.Round(duration * float64(cfg.TargetFPS)))
	if diff := bundle.NumFrames() - want; diff < -1 || diff > 1 {
		t.Errorf("frame count %d, want %d within 1", bundle.NumFrames(), want)
	}

	for i, v := range bundle.Energy {
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Fatalf("energy out of range at %d: %f", i, v)
		}
	}

	if len(bundle.Zones) != bundle.NumFrames() {
		t.Errorf("zones cover %d frames, want %d", len(bundle.Zones), bundle.NumFrames())
	}
	if len(bundle.Times) != bundle.NumFrames() {
		t.Errorf("times cover %d frames, want %d", len(bundle.Times), bundle.NumFrames())
	}

	if len(bundle.SectionBoundaries) == 0 {
		t.Error("no section boundaries")
	}
	prev := 0.0
	for _, b := range bundle.SectionBoundaries {
		if b <= prev || b >= duration {
			t.Fatalf("section boundary %f not strictly increasing inside (0, %f)", b, duration)
		}
		prev = b
	}

	for i := 1; i < len(bundle.DropLocations); i++ {
		if bundle.DropLocations[i]-bundle.DropLocations[i-1] < 10.0 {
			t.Errorf("drops %f and %f closer than 10 s",
				bundle.DropLocations[i-1], bundle.DropLocations[i])
		}
	}

	for _, stream := range [][]float64{bundle.SpectralCentroid, bundle.SpectralBandwidth, bundle.ChromaHue} {
		if len(stream) != bundle.NumFrames() {
			t.Errorf("color stream length %d, want %d", len(stream), bundle.NumFrames())
		}
	}

	if bundle.Tempo != 120 {
		t.Errorf("tempo %f, want 120", bundle.Tempo)
	}
	if bundle.TargetFPS != cfg.TargetFPS {
		t.Errorf("fps %d, want %d", bundle.TargetFPS, cfg.TargetFPS)
	}
}

func TestPipelineDeterministic(t *testing.T) {
	tf := syntheticTrack(45)

	a, err := NewPipeline(nil).Analyze(tf)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := NewPipeline(nil).Analyze(tf)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(a.Energy) != len(b.Energy) {
		t.Fatal("energy lengths differ between runs")
	}
	for i := range a.Energy {
		if a.Energy[i] != b.Energy[i] {
			t.Fatalf("energy differs at %d: %g vs %g", i, a.Energy[i], b.Energy[i])
		}
		if a.Zones[i] != b.Zones[i] {
			t.Fatalf("zones differ at %d", i)
		}
	}
	if len(a.SectionBoundaries) != len(b.SectionBoundaries) {
		t.Fatal("section counts differ between runs")
	}
}

func TestPipelineSilentTrack(t *testing.T) {
	duration := 10.0
	n := int(duration*testFrameRate) + 1

	tf := &features.TrackFeatures{
		SampleRate:        22050,
		HopSize:           1024,
		FrameRate:         testFrameRate,
		Duration:          duration,
		Tempo:             120,
		RMS:               make([]float64, n),
		SpectralContrast:  make([]float64, n),
		SpectralFlux:      make([]float64, n),
		MeanSpectrum:      make([]float64, n),
		SpectralCentroid:  make([]float64, n),
		SpectralBandwidth: make([]float64, n),
		HarmonicRMS:       make([]float64, n),
		PercussiveRMS:     make([]float64, n),
		DominantPitch:     make([]int, n),
	}

	bundle, err := NewPipeline(nil).Analyze(tf)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if len(bundle.DropLocations) != 0 {
		t.Errorf("drops in silence: %v", bundle.DropLocations)
	}
	if len(bundle.Buildups) != 0 {
		t.Errorf("buildups in silence: %d", len(bundle.Buildups))
	}
	for i, z := range bundle.Zones {
		if z != ZoneQuiet {
			t.Fatalf("frame %d: got %s, want quiet", i, z)
		}
	}
	for i, v := range bundle.Energy {
		if v != 0 {
			t.Fatalf("nonzero energy at %d in silence: %f", i, v)
		}
	}
}

func TestPipelineVeryShortTrack(t *testing.T) {
	bundle, err := NewPipeline(nil).Analyze(syntheticTrack(2))
	if err != nil {
		t.Fatalf("short track failed: %v", err)
	}

	if bundle.NumFrames() == 0 {
		t.Fatal("no output frames")
	}
	for i, v := range bundle.Energy {
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Fatalf("energy out of range at %d: %f", i, v)
		}
	}
	if len(bundle.SectionBoundaries) == 0 {
		t.Error("no section boundaries for short track")
	}
}

// TestPipelineBuildupIntoDrop feeds a track whose loudness ramps up from
// 18 s and releases percussively at 30 s, and checks the detectors agree:
// buildup windows cover the ramp and exactly one drop lands near the hit.
// The ramp accelerates so its smoothed slope stays positive all the way to
// the release, the way real buildups crest into a drop.
func TestPipelineBuildupIntoDrop(t *testing.T) {
	duration := 60.0
	tf := syntheticTrack(duration)

	rampStart := int(18.0 * testFrameRate)
	hit := int(30.0 * testFrameRate)
	for i := range tf.MeanSpectrum {
		switch {
		case i < rampStart:
			tf.MeanSpectrum[i] = 1.0
		case i < hit:
			frac := float64(i-rampStart) / float64(hit-rampStart)
			tf.MeanSpectrum[i] = 1.0 + 8.0*frac*frac
		default:
			tf.MeanSpectrum[i] = 9.0
		}

		tf.PercussiveRMS[i] = 0.05
		if i >= hit {
			tf.PercussiveRMS[i] = 0.9
		}
	}

	bundle, err := NewPipeline(nil).Analyze(tf)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if len(bundle.DropLocations) != 1 {
		t.Fatalf("got drops at %v, want exactly one near 30 s", bundle.DropLocations)
	}
	if d := bundle.DropLocations[0]; d < 26 || d > 32 {
		t.Errorf("drop at %.2f s, want near 30 s", d)
	}

	if len(bundle.Buildups) == 0 {
		t.Fatal("no buildup windows over the ramp")
	}
	earliest, latest := math.Inf(1), math.Inf(-1)
	for _, w := range bundle.Buildups {
		earliest = math.Min(earliest, w.StartTime)
		latest = math.Max(latest, w.EndTime)
	}
	if earliest > 20 || latest < 26 {
		t.Errorf("buildup windows span [%.2f, %.2f] s, want them to cover the ramp",
			earliest, latest)
	}
}

func TestPipelineRejectsEmptyFeatures(t *testing.T) {
	if _, err := NewPipeline(nil).Analyze(&features.TrackFeatures{}); err == nil {
		t.Error("empty features accepted")
	}
	if _, err := NewPipeline(nil).Analyze(nil); err == nil {
		t.Error("nil features accepted")
	}
}

func TestPipelineFallsBackWhenClusteringFails(t *testing.T) {
	tf := syntheticTrack(60)

	bundle, err := NewPipelineWithPartitioner(DefaultPipelineConfig(), failingPartitioner{}).Analyze(tf)
	if err != nil {
		t.Fatalf("analyze with failing partitioner: %v", err)
	}

	if len(bundle.SectionBoundaries) == 0 {
		t.Fatal("fallback produced no section boundaries")
	}
	prev := 0.0
	for _, b := range bundle.SectionBoundaries {
		if b <= prev {
			t.Fatalf("fallback boundaries not strictly increasing: %v", bundle.SectionBoundaries)
		}
		prev = b
	}
}
