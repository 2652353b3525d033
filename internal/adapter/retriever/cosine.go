package retriever

import (
	"errors"
	"fmt"
	"math"
)

var ErrNonFinite = errors.New("embedding contains NaN or Inf")

// CheckFinite rejects vectors holding NaN or Inf, which would break score
// ordering.
func CheckFinite(vec []float32) error {
	for i, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w at index %d", ErrNonFinite, i)
		}
	}
	return nil
}

// CosineSimilarity returns dot(a,b)/(|a||b|). Mismatched lengths or a
// zero-norm operand yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
