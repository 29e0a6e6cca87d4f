package stats

import (
	"fmt"
	"math"
	"math/rand"
)

// PartitionOutcome is the explicit result of a partitioning attempt. The
// caller branches on the variant instead of recovering from a fault:
// either Labels is populated, or Reason explains why clustering could not
// run (and Labels is nil).
type PartitionOutcome struct {
	Labels []int  `json:"labels,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Available reports whether the partition succeeded
func (o PartitionOutcome) Available() bool {
	return o.Reason == ""
}

// unavailable builds the failure variant
func unavailable(format string, args ...any) PartitionOutcome {
	return PartitionOutcome{Reason: fmt.Sprintf(format, args...)}
}

// KMeansParams contains parameters for the k-means partitioner
type KMeansParams struct {
	NumClusters   int     `json:"num_clusters"`
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
	RandomSeed    int64   `json:"random_seed"`
}

// KMeans partitions feature vectors into k groups using Lloyd's algorithm
// with k-means++ initialization. The random source is seeded explicitly so
// repeated runs over the same data produce identical labels.
//
// References:
//   - MacQueen, J. (1967). "Some methods for classification and analysis of
//     multivariate observations"
//   - Arthur, D., & Vassilvitskii, S. (2007). "k-means++: The advantages of
//     careful seeding"
type KMeans struct {
	params KMeansParams
	rng    *rand.Rand
}

// NewKMeans creates a seeded partitioner for k clusters
func NewKMeans(k int, seed int64) *KMeans {
	return NewKMeansWithParams(KMeansParams{
		NumClusters:   k,
		MaxIterations: 100,
		Tolerance:     1e-4,
		RandomSeed:    seed,
	})
}

// NewKMeansWithParams creates a partitioner with custom parameters
func NewKMeansWithParams(params KMeansParams) *KMeans {
	if params.MaxIterations <= 0 {
		params.MaxIterations = 100
	}
	if params.Tolerance <= 0 {
		params.Tolerance = 1e-4
	}
	return &KMeans{
		params: params,
		rng:    rand.New(rand.NewSource(params.RandomSeed)),
	}
}

// Partition assigns each row of data to one of k clusters. All failure modes
// surface as the Unavailable variant, never as a panic or error value.
func (km *KMeans) Partition(data [][]float64) PartitionOutcome {
	n := len(data)
	k := km.params.NumClusters

	if n == 0 {
		return unavailable("empty feature matrix")
	}
	if k < 1 {
		return unavailable("cluster count must be positive, got %d", k)
	}
	if k > n {
		return unavailable("cluster count (%d) exceeds number of points (%d)", k, n)
	}
	dim := len(data[0])
	for i, row := range data {
		if len(row) != dim {
			return unavailable("ragged feature matrix: row %d has %d features, want %d", i, len(row), dim)
		}
	}

	centers := km.initializeCenters(data, k)
	labels := make([]int, n)

	for it := 0; it < km.params.MaxIterations; it++ {
		// Assignment step
		moved := 0
		for i, point := range data {
			best := 0
			bestDist := math.Inf(1)
			for j, center := range centers {
				if d := squaredDistance(point, center); d < bestDist {
					bestDist = d
					best = j
				}
			}
			if labels[i] != best {
				moved++
			}
			labels[i] = best
		}

		// Update step
		newCenters := make([][]float64, k)
		sizes := make([]int, k)
		for j := range newCenters {
			newCenters[j] = make([]float64, dim)
		}
		for i, point := range data {
			sizes[labels[i]]++
			for d, v := range point {
				newCenters[labels[i]][d] += v
			}
		}
		for j := range newCenters {
			if sizes[j] > 0 {
				for d := range newCenters[j] {
					newCenters[j][d] /= float64(sizes[j])
				}
			} else {
				// Reseed empty clusters from a random point
				copy(newCenters[j], data[km.rng.Intn(n)])
			}
		}
		centers = newCenters

		if float64(moved)/float64(n) < km.params.Tolerance {
			break
		}
	}

	return PartitionOutcome{Labels: labels}
}

// initializeCenters seeds cluster centers with k-means++
func (km *KMeans) initializeCenters(data [][]float64, k int) [][]float64 {
	n := len(data)
	dim := len(data[0])
	centers := make([][]float64, k)

	centers[0] = make([]float64, dim)
	copy(centers[0], data[km.rng.Intn(n)])

	distances := make([]float64, n)
	for i := 1; i < k; i++ {
		total := 0.0
		for j, point := range data {
			minDist := math.Inf(1)
			for l := 0; l < i; l++ {
				if d := squaredDistance(point, centers[l]); d < minDist {
					minDist = d
				}
			}
			distances[j] = minDist
			total += minDist
		}

		centers[i] = make([]float64, dim)
		if total <= 0 {
			copy(centers[i], data[km.rng.Intn(n)])
			continue
		}

		r := km.rng.Float64() * total
		cumSum := 0.0
		chosen := n - 1
		for j, dist := range distances {
			cumSum += dist
			if cumSum >= r {
				chosen = j
				break
			}
		}
		copy(centers[i], data[chosen])
	}

	return centers
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
