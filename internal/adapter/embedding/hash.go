package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"semsearch/internal/adapter/analyzer"
)

// HashEncoder is a deterministic, dependency-free encoder that feature-hashes
// analyzer tokens into a fixed number of buckets. It captures lexical overlap
// only and exists for offline use and tests; it is not a semantic model.
type HashEncoder struct {
	dimension int
	tokenizer *analyzer.Tokenizer
	stemming  bool
}

func NewHashEncoder(dimension int, stemming bool) *HashEncoder {
	if dimension <= 0 {
		dimension = 256
	}
	return &HashEncoder{
		dimension: dimension,
		tokenizer: analyzer.NewTokenizer(stemming),
		stemming:  stemming,
	}
}

func (e *HashEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.encode(text)
	}
	return out, nil
}

func (e *HashEncoder) encode(text string) []float32 {
	vec := make([]float32, e.dimension)

	features := e.tokenizer.Tokenize(text)
	if len(features) == 0 {
		// Stopword-only or empty input still gets a stable non-zero vector.
		features = []string{strings.ToLower(strings.TrimSpace(text))}
	}

	for _, f := range features {
		h := fnv.New64a()
		_, _ = h.Write([]byte(f))
		sum := h.Sum64()
		idx := int(sum % uint64(e.dimension))
		if sum>>63 == 1 {
			vec[idx] -= 1
		} else {
			vec[idx] += 1
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		// Every feature cancelled out; fall back to the first bucket.
		vec[0] = 1
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

func (e *HashEncoder) Version() string {
	if e.stemming {
		return fmt.Sprintf("hash-%d-stem", e.dimension)
	}
	return fmt.Sprintf("hash-%d", e.dimension)
}
