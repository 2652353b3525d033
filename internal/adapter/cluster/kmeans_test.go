package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoBlobs() [][]float64 {
	return [][]float64{
		{0.0, 0.1},
		{0.1, 0.0},
		{10.0, 10.1},
		{0.05, 0.05},
		{10.1, 10.0},
		{9.9, 10.0},
	}
}

func TestKMeans_SeparatesBlobs(t *testing.T) {
	res, err := KMeans(twoBlobs(), KMeansOptions{K: 2, Seed: 42, MaxIterations: 50, Tolerance: 1e-9})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 0, 1, 1}, res.Labels)
	assert.True(t, res.Converged)
	assert.Len(t, res.centroids, 2)
	assert.InDelta(t, 0.05, res.centroids[0][0], 1e-9)
	assert.InDelta(t, 10.0, res.centroids[1][0], 1e-9)
	assert.Less(t, res.Inertia, 0.1)
}

func TestKMeans_DeterministicForSeed(t *testing.T) {
	opts := KMeansOptions{K: 3, Seed: 7, MaxIterations: 100, Tolerance: 1e-9}
	a, err := KMeans(twoBlobs(), opts)
	require.NoError(t, err)
	b, err := KMeans(twoBlobs(), opts)
	require.NoError(t, err)

	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.centroids, b.centroids)
	assert.Equal(t, a.Inertia, b.Inertia)
}

func TestKMeans_LabelsInRangeAndFirstIsZero(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		res, err := KMeans(twoBlobs(), KMeansOptions{K: 3, Seed: seed})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Labels[0])
		for _, l := range res.Labels {
			assert.GreaterOrEqual(t, l, 0)
			assert.Less(t, l, 3)
		}
	}
}

func TestKMeans_KEqualsN(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 0}, {0, 1}}
	res, err := KMeans(points, KMeansOptions{K: 3, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res.Labels)
	assert.InDelta(t, 0, res.Inertia, 1e-12)
}

func TestKMeans_DuplicatePoints(t *testing.T) {
	points := [][]float64{{1, 1}, {1, 1}, {1, 1}}
	res, err := KMeans(points, KMeansOptions{K: 2, Seed: 3, MaxIterations: 10})
	require.NoError(t, err)
	require.Len(t, res.Labels, 3)
	for _, l := range res.Labels {
		assert.Less(t, l, 2)
	}
	assert.InDelta(t, 0, res.Inertia, 1e-12)
}

func TestKMeans_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
		k      int
	}{
		{"no points", nil, 1},
		{"k zero", [][]float64{{1}}, 0},
		{"k above n", [][]float64{{1}, {2}}, 3},
		{"ragged", [][]float64{{1, 2}, {3}}, 1},
		{"empty vectors", [][]float64{{}, {}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := KMeans(tt.points, KMeansOptions{K: tt.k})
			assert.Error(t, err)
		})
	}
}

func TestKMeans_NonFinite(t *testing.T) {
	nan := [][]float64{{0, 0}, {zero() / zero(), 1}}
	_, err := KMeans(nan, KMeansOptions{K: 1})
	assert.ErrorIs(t, err, errNonFinite)
}

func zero() float64 { return 0 }

func TestNormalize(t *testing.T) {
	points := [][]float64{{3, 4}, {0, 0}}
	Normalize(points)
	assert.InDelta(t, 0.6, points[0][0], 1e-12)
	assert.InDelta(t, 0.8, points[0][1], 1e-12)
	assert.Equal(t, []float64{0, 0}, points[1])
}
