package energy

import (
	"math"
	"testing"
)

func TestApplyMomentumLimitsStep(t *testing.T) {
	// Short input skips the polynomial pass, isolating the clamp
	n := 50
	curve := make([]float64, n)
	for i := n / 2; i < n; i++ {
		curve[i] = 1.0
	}

	cfg := DefaultPipelineConfig()
	out := ApplyMomentum(curve, cfg)

	if len(out) != n {
		t.Fatalf("length changed: got %d", len(out))
	}

	// The step may climb at most 0.05*(1+level) per frame
	for i := 1; i < n; i++ {
		limit := cfg.MaxChangePerFrame*(1.0+curve[i]) + 1e-12
		if math.Abs(out[i]-out[i-1]) > limit {
			t.Fatalf("frame %d jumped %f, limit %f", i, out[i]-out[i-1], limit)
		}
	}

	// The clamp ramps toward the plateau instead of flattening it
	if out[n-1] <= out[n/2] {
		t.Error("clamped output not rising toward the step level")
	}
}

func TestApplyMomentumPassesSlowCurve(t *testing.T) {
	n := 80
	curve := make([]float64, n)
	for i := range curve {
		curve[i] = 0.5 + 0.3*math.Sin(float64(i)*0.05)
	}

	out := ApplyMomentum(curve, DefaultPipelineConfig())

	for i := range curve {
		if math.Abs(out[i]-curve[i]) > 1e-9 {
			t.Fatalf("slow curve altered at %d: got %f, want %f", i, out[i], curve[i])
		}
	}
}

func TestApplyMomentumLongCurveSmoothed(t *testing.T) {
	cfg := DefaultPipelineConfig()
	n := cfg.SavGolWindow * 3

	curve := make([]float64, n)
	for i := n / 2; i < n; i++ {
		curve[i] = 1.0
	}

	out := ApplyMomentum(curve, cfg)
	if len(out) != n {
		t.Fatalf("length changed: got %d", len(out))
	}
	for i, v := range out {
		if math.IsNaN(v) {
			t.Fatalf("NaN at %d", i)
		}
	}
}
