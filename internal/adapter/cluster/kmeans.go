package cluster

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// KMeansOptions configures a k-means run. The same points and options always
// produce the same result.
type KMeansOptions struct {
	K             int
	Seed          int64
	MaxIterations int
	Tolerance     float64 // max centroid shift that counts as converged
}

type KMeansResult struct {
	Labels     []int // in [0,K), renumbered by first appearance in input order
	centroids  [][]float64
	Iterations int
	Inertia    float64 // sum of squared distances to assigned centroids
	Converged  bool
}

var (
	errNoPoints          = errors.New("no points to cluster")
	errDimensionMismatch = errors.New("points have different dimensions")
	errNonFinite         = errors.New("point contains NaN or Inf")
)

// KMeans partitions points into opts.K clusters with k-means++ seeding and
// Lloyd iterations. Empty clusters are re-seeded with the point farthest from
// its centroid.
func KMeans(points [][]float64, opts KMeansOptions) (*KMeansResult, error) {
	if len(points) == 0 {
		return nil, errNoPoints
	}
	if opts.K < 1 || opts.K > len(points) {
		return nil, fmt.Errorf("k=%d out of range for %d points", opts.K, len(points))
	}
	if err := checkPoints(points); err != nil {
		return nil, err
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 100
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	centroids := initPlusPlus(points, opts.K, rng)
	labels := make([]int, len(points))
	dim := len(points[0])

	result := &KMeansResult{}
	for iter := 1; iter <= opts.MaxIterations; iter++ {
		result.Iterations = iter
		assign(points, centroids, labels)

		sums := make([][]float64, opts.K)
		counts := make([]int, opts.K)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}

		next := make([][]float64, opts.K)
		for c := range next {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			next[c] = sums[c]
		}
		reseedEmpty(points, centroids, labels, counts, next)

		shift := 0.0
		for c := range next {
			shift = math.Max(shift, floats.Distance(centroids[c], next[c], 2))
		}
		centroids = next

		if shift <= opts.Tolerance {
			result.Converged = true
			break
		}
	}

	result.Inertia = assign(points, centroids, labels)
	if math.IsNaN(result.Inertia) || math.IsInf(result.Inertia, 0) {
		return nil, errNonFinite
	}
	result.Labels, result.centroids = relabel(labels, centroids)
	return result, nil
}

func checkPoints(points [][]float64) error {
	dim := len(points[0])
	if dim == 0 {
		return errDimensionMismatch
	}
	for i, p := range points {
		if len(p) != dim {
			return fmt.Errorf("%w: point %d has %d values, expected %d", errDimensionMismatch, i, len(p), dim)
		}
		if floats.HasNaN(p) {
			return fmt.Errorf("%w: point %d", errNonFinite, i)
		}
		for _, v := range p {
			if math.IsInf(v, 0) {
				return fmt.Errorf("%w: point %d", errNonFinite, i)
			}
		}
	}
	return nil
}

// initPlusPlus picks k starting centroids, each drawn with probability
// proportional to its squared distance from the nearest centroid chosen so far.
func initPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	chosen := make(map[int]bool, k)

	first := rng.Intn(len(points))
	centroids = append(centroids, clone(points[first]))
	chosen[first] = true

	distSq := make([]float64, len(points))
	for len(centroids) < k {
		var sum float64
		for i, p := range points {
			_, d := nearest(p, centroids)
			distSq[i] = d * d
			sum += distSq[i]
		}

		selected := -1
		if sum > 0 {
			r := rng.Float64() * sum
			var cumulative float64
			for i, d := range distSq {
				cumulative += d
				if cumulative >= r && d > 0 {
					selected = i
					break
				}
			}
		}
		if selected == -1 {
			// All remaining points coincide with a centroid; take the first unused one.
			for i := range points {
				if !chosen[i] {
					selected = i
					break
				}
			}
		}

		centroids = append(centroids, clone(points[selected]))
		chosen[selected] = true
	}
	return centroids
}

// assign labels every point with its nearest centroid and returns the inertia.
func assign(points, centroids [][]float64, labels []int) float64 {
	var inertia float64
	for i, p := range points {
		c, d := nearest(p, centroids)
		labels[i] = c
		inertia += d * d
	}
	return inertia
}

// nearest returns the index of the closest centroid (lowest index on ties) and its distance.
func nearest(p []float64, centroids [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if centroid == nil {
			continue
		}
		d := floats.Distance(p, centroid, 2)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

func reseedEmpty(points, centroids [][]float64, labels, counts []int, next [][]float64) {
	taken := make(map[int]bool)
	for c := range next {
		if next[c] != nil {
			continue
		}
		far, farDist := -1, -1.0
		for i, p := range points {
			if taken[i] || counts[labels[i]] < 2 {
				continue
			}
			d := floats.Distance(p, centroids[labels[i]], 2)
			if d > farDist {
				far, farDist = i, d
			}
		}
		if far == -1 {
			next[c] = clone(centroids[c])
			continue
		}
		taken[far] = true
		counts[labels[far]]--
		next[c] = clone(points[far])
	}
}

// relabel renumbers clusters in order of first appearance so equal inputs give
// equal label sequences regardless of seeding order.
func relabel(labels []int, centroids [][]float64) ([]int, [][]float64) {
	mapping := make(map[int]int, len(centroids))
	out := make([]int, len(labels))
	ordered := make([][]float64, 0, len(centroids))
	for i, l := range labels {
		m, ok := mapping[l]
		if !ok {
			m = len(mapping)
			mapping[l] = m
			ordered = append(ordered, centroids[l])
		}
		out[i] = m
	}
	for c, centroid := range centroids {
		if _, ok := mapping[c]; !ok {
			mapping[c] = len(mapping)
			ordered = append(ordered, centroid)
		}
	}
	return out, ordered
}

// Normalize scales each row to unit length in place; zero rows are left as is.
func Normalize(points [][]float64) {
	for _, p := range points {
		if n := floats.Norm(p, 2); n > 0 {
			floats.Scale(1/n, p)
		}
	}
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
