package port

import (
	"context"
	"fmt"
)

// Encoder maps text to fixed-length vectors.
type Encoder interface {
	// Encode returns one vector per input text, in input order.
	Encode(ctx context.Context, texts []string) ([][]float32, error)

	// Version identifies the model; vectors from different versions are not comparable.
	Version() string
}

// EncodeOne encodes a single text.
func EncodeOne(ctx context.Context, enc Encoder, text string) ([]float32, error) {
	vecs, err := enc.Encode(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("encoder returned %d vectors for 1 text", len(vecs))
	}
	return vecs[0], nil
}
