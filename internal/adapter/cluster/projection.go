package cluster

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var errPCA = errors.New("principal component analysis did not converge")

// ProjectPCA maps each point onto the first two principal components of the
// set. When the data has fewer than two components the missing axis is 0.
func ProjectPCA(points [][]float64) ([][2]float64, error) {
	n := len(points)
	if n == 0 {
		return nil, errNoPoints
	}
	if err := checkPoints(points); err != nil {
		return nil, err
	}
	d := len(points[0])

	data := mat.NewDense(n, d, nil)
	for i, p := range points {
		data.SetRow(i, p)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, errPCA
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	_, available := vecs.Dims()
	k := min(2, available)
	if k == 0 {
		return nil, fmt.Errorf("%w: no components", errPCA)
	}

	// Project the mean-centred data so coordinates are relative to the centroid of the set.
	centred := mat.DenseCopyOf(data)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, data)
		mean := stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			centred.Set(i, j, col[i]-mean)
		}
	}

	var proj mat.Dense
	proj.Mul(centred, vecs.Slice(0, d, 0, k))

	out := make([][2]float64, n)
	for i := range out {
		out[i][0] = proj.At(i, 0)
		if k > 1 {
			out[i][1] = proj.At(i, 1)
		}
	}
	return out, nil
}
