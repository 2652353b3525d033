package cluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectPCA_LineKeepsOrderAndDistance(t *testing.T) {
	// Points on a line in 3-D: the first component captures all variance.
	points := [][]float64{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {3, 3, 3}}
	coords, err := ProjectPCA(points)
	require.NoError(t, err)
	require.Len(t, coords, 4)

	step := math.Sqrt(3)
	for i := 1; i < len(coords); i++ {
		assert.InDelta(t, step, math.Abs(coords[i][0]-coords[i-1][0]), 1e-9)
		assert.InDelta(t, 0, coords[i][1], 1e-9)
	}
	// Centred: coordinates sum to zero.
	var sum float64
	for _, c := range coords {
		sum += c[0]
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestProjectPCA_PreservesPairwiseDistancesIn2D(t *testing.T) {
	points := [][]float64{{0, 0}, {4, 0}, {0, 3}}
	coords, err := ProjectPCA(points)
	require.NoError(t, err)

	dist := func(a, b [2]float64) float64 { return math.Hypot(a[0]-b[0], a[1]-b[1]) }
	assert.InDelta(t, 4, dist(coords[0], coords[1]), 1e-9)
	assert.InDelta(t, 3, dist(coords[0], coords[2]), 1e-9)
	assert.InDelta(t, 5, dist(coords[1], coords[2]), 1e-9)
}

func TestProjectPCA_TwoPointsHighDimension(t *testing.T) {
	points := [][]float64{{1, 0, 0, 0, 0}, {0, 1, 0, 0, 0}}
	coords, err := ProjectPCA(points)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, math.Abs(coords[0][0]-coords[1][0]), 1e-9)
}

func TestProjectPCA_Deterministic(t *testing.T) {
	a, err := ProjectPCA(twoBlobs())
	require.NoError(t, err)
	b, err := ProjectPCA(twoBlobs())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProjectPCA_Errors(t *testing.T) {
	_, err := ProjectPCA(nil)
	assert.Error(t, err)

	_, err = ProjectPCA([][]float64{{1, 2}, {1}})
	assert.Error(t, err)
}
