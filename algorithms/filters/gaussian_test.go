package filters

import (
	"math"
	"testing"
)

func TestGaussianPreservesConstant(t *testing.T) {
	signal := make([]float64, 200)
	for i := range signal {
		signal[i] = 0.7
	}

	out := Gaussian(signal, 15)

	if len(out) != len(signal) {
		t.Fatalf("length changed: got %d, want %d", len(out), len(signal))
	}
	for i, v := range out {
		if math.Abs(v-0.7) > 1e-9 {
			t.Fatalf("constant not preserved at %d: got %f", i, v)
		}
	}
}

func TestGaussianSmoothsImpulse(t *testing.T) {
	signal := make([]float64, 101)
	signal[50] = 1.0

	out := Gaussian(signal, 5)

	if out[50] >= 1.0 {
		t.Errorf("impulse peak not reduced: got %f", out[50])
	}
	if out[40] <= 0 || out[60] <= 0 {
		t.Error("impulse energy did not spread to neighbors")
	}
	if math.Abs(out[45]-out[55]) > 1e-9 {
		t.Errorf("smoothed impulse not symmetric: %f vs %f", out[45], out[55])
	}

	// total mass is conserved away from the boundaries
	sum := 0.0
	for _, v := range out {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("mass not conserved: got %f", sum)
	}
}

func TestGaussianZeroSigmaIsIdentity(t *testing.T) {
	signal := []float64{0.1, 0.9, 0.3, 0.5}
	out := Gaussian(signal, 0)
	for i := range signal {
		if out[i] != signal[i] {
			t.Fatalf("zero sigma changed sample %d", i)
		}
	}
}

func TestGaussianEmptyInput(t *testing.T) {
	if out := Gaussian(nil, 10); len(out) != 0 {
		t.Errorf("expected empty output, got %d samples", len(out))
	}
}

func TestReflectIndex(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 4, 0},
		{3, 4, 3},
		{-1, 4, 0},
		{-2, 4, 1},
		{4, 4, 3},
		{5, 4, 2},
		{-5, 4, 3},
		{7, 1, 0},
	}
	for _, tc := range tests {
		if got := reflectIndex(tc.i, tc.n); got != tc.want {
			t.Errorf("reflectIndex(%d, %d) = %d, want %d", tc.i, tc.n, got, tc.want)
		}
	}
}
