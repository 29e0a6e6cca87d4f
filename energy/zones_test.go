package energy

import (
	"testing"
)

func TestClassifyBar(t *testing.T) {
	cfg := DefaultPipelineConfig()

	flat := func(v float64, n int) []float64 {
		seg := make([]float64, n)
		for i := range seg {
			seg[i] = v
		}
		return seg
	}

	tests := []struct {
		name  string
		seg   []float64
		deriv []float64
		want  Zone
	}{
		{"quiet floor", flat(0.1, 48), flat(0, 48), ZoneQuiet},
		{"sustained plateau", flat(0.7, 48), flat(0, 48), ZoneSustained},
		{"bridge midrange", flat(0.45, 48), flat(0, 48), ZoneBridge},
		{"buildup rising", flat(0.5, 48), flat(0.02, 48), ZoneBuildup},
		{"decay falling", flat(0.5, 48), flat(-0.02, 48), ZoneDecay},
		{"drop peak rising", flat(0.85, 48), flat(0.005, 48), ZoneDrop},
		{"high but falling is decay", flat(0.85, 48), flat(-0.02, 48), ZoneDecay},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyBar(tc.seg, tc.deriv, cfg); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestClassifyZonesQuietAndSustained(t *testing.T) {
	cfg := DefaultPipelineConfig()

	// 60 s at 24 fps: quiet first half, sustained second half
	n := 60 * cfg.TargetFPS
	energy := make([]float64, n)
	for i := range energy {
		if i < n/2 {
			energy[i] = 0.1
		} else {
			energy[i] = 0.7
		}
	}

	// bars every 2 s
	var bars []float64
	for tSec := 0.0; tSec < 60; tSec += 2 {
		bars = append(bars, tSec)
	}

	zones := ClassifyZones(energy, bars, cfg)

	if len(zones) != n {
		t.Fatalf("zone count: got %d, want %d", len(zones), n)
	}
	if zones[10*cfg.TargetFPS] != ZoneQuiet {
		t.Errorf("10 s: got %s, want quiet", zones[10*cfg.TargetFPS])
	}
	if zones[50*cfg.TargetFPS] != ZoneSustained {
		t.Errorf("50 s: got %s, want sustained", zones[50*cfg.TargetFPS])
	}
}

func TestClassifyZonesNoBars(t *testing.T) {
	cfg := DefaultPipelineConfig()
	energy := make([]float64, 10*cfg.TargetFPS)

	zones := ClassifyZones(energy, nil, cfg)

	if len(zones) != len(energy) {
		t.Fatalf("zone count: got %d", len(zones))
	}
	for i, z := range zones {
		if z != ZoneQuiet {
			t.Fatalf("frame %d: got %s, want quiet", i, z)
		}
	}
}

func TestBarBoundariesEveryFourthBeat(t *testing.T) {
	cfg := DefaultPipelineConfig()
	beats := []float64{0, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0}

	bars := BarBoundaries(beats, cfg)

	want := []float64{0, 2.0, 4.0}
	if len(bars) != len(want) {
		t.Fatalf("bar count: got %v, want %v", bars, want)
	}
	for i := range want {
		if bars[i] != want[i] {
			t.Errorf("bar[%d] = %f, want %f", i, bars[i], want[i])
		}
	}
}
