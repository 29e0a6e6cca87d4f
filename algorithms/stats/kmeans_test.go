package stats

import (
	"testing"
)

// twoBlobs builds well-separated clusters around (0,0) and (10,10)
func twoBlobs(perCluster int) [][]float64 {
	data := make([][]float64, 0, 2*perCluster)
	for i := 0; i < perCluster; i++ {
		jitter := float64(i%5) * 0.01
		data = append(data, []float64{jitter, -jitter})
	}
	for i := 0; i < perCluster; i++ {
		jitter := float64(i%5) * 0.01
		data = append(data, []float64{10 + jitter, 10 - jitter})
	}
	return data
}

func TestKMeansSeparatesBlobs(t *testing.T) {
	data := twoBlobs(50)

	outcome := NewKMeans(2, 42).Partition(data)
	if !outcome.Available() {
		t.Fatalf("partition unavailable: %s", outcome.Reason)
	}
	if len(outcome.Labels) != len(data) {
		t.Fatalf("label count: got %d, want %d", len(outcome.Labels), len(data))
	}

	first := outcome.Labels[0]
	for i := 0; i < 50; i++ {
		if outcome.Labels[i] != first {
			t.Fatalf("first blob split at %d", i)
		}
	}
	second := outcome.Labels[50]
	if second == first {
		t.Fatal("blobs merged into one cluster")
	}
	for i := 50; i < 100; i++ {
		if outcome.Labels[i] != second {
			t.Fatalf("second blob split at %d", i)
		}
	}
}

func TestKMeansDeterministicWithSeed(t *testing.T) {
	data := twoBlobs(30)

	a := NewKMeans(2, 42).Partition(data)
	b := NewKMeans(2, 42).Partition(data)

	if !a.Available() || !b.Available() {
		t.Fatal("partition unavailable")
	}
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			t.Fatalf("labels differ at %d between identical seeded runs", i)
		}
	}
}

func TestKMeansUnavailableVariants(t *testing.T) {
	tests := []struct {
		name string
		data [][]float64
		k    int
	}{
		{"empty matrix", nil, 2},
		{"more clusters than points", [][]float64{{1}, {2}}, 3},
		{"zero clusters", [][]float64{{1}, {2}}, 0},
		{"ragged rows", [][]float64{{1, 2}, {3}}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			outcome := NewKMeans(tc.k, 42).Partition(tc.data)
			if outcome.Available() {
				t.Error("expected unavailable outcome")
			}
			if outcome.Labels != nil {
				t.Error("unavailable outcome carries labels")
			}
			if outcome.Reason == "" {
				t.Error("unavailable outcome has no reason")
			}
		})
	}
}

func TestKMeansSingleCluster(t *testing.T) {
	data := [][]float64{{1, 1}, {2, 2}, {3, 3}}

	outcome := NewKMeans(1, 7).Partition(data)
	if !outcome.Available() {
		t.Fatalf("partition unavailable: %s", outcome.Reason)
	}
	for i, l := range outcome.Labels {
		if l != 0 {
			t.Errorf("label[%d] = %d, want 0", i, l)
		}
	}
}
