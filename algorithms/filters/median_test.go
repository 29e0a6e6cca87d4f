package filters

import (
	"testing"
)

func TestMedianRemovesSpike(t *testing.T) {
	signal := []float64{0.5, 0.5, 0.5, 9.0, 0.5, 0.5, 0.5}
	out := Median(signal, 3)

	for i, v := range out {
		if v != 0.5 {
			t.Errorf("spike survived at %d: got %f", i, v)
		}
	}
}

func TestMedianPreservesEdge(t *testing.T) {
	signal := []float64{0, 0, 0, 0, 1, 1, 1, 1}
	out := Median(signal, 3)

	for i, v := range out {
		if v != signal[i] {
			t.Errorf("edge blurred at %d: got %f, want %f", i, v, signal[i])
		}
	}
}

func TestMedianEvenSizeWidened(t *testing.T) {
	signal := []float64{1, 2, 3, 4, 5}
	even := Median(signal, 4)
	odd := Median(signal, 5)

	for i := range signal {
		if even[i] != odd[i] {
			t.Fatalf("even window not widened to odd at %d: %f vs %f", i, even[i], odd[i])
		}
	}
}

func TestMedianApplyIntAbsorbsShortRun(t *testing.T) {
	labels := []int{0, 0, 0, 2, 0, 0, 0, 1, 1, 1, 1, 1}
	out := NewMedianFilter(3).ApplyInt(labels)

	if out[3] != 0 {
		t.Errorf("single-frame label survived: got %d", out[3])
	}
	if out[9] != 1 {
		t.Errorf("stable run disturbed: got %d", out[9])
	}
}

func TestMedianEmptyInput(t *testing.T) {
	if out := Median(nil, 5); len(out) != 0 {
		t.Errorf("expected empty output, got %d samples", len(out))
	}
}
