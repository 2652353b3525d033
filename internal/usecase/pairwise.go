package usecase

import (
	"context"
	"fmt"

	"semsearch/internal/adapter/retriever"
	"semsearch/internal/domain"
	"semsearch/internal/metrics"
	"semsearch/internal/port"
)

// PairwiseScorer compares two arbitrary texts.
type PairwiseScorer struct {
	encoder port.Encoder
}

func NewPairwiseScorer(encoder port.Encoder) *PairwiseScorer {
	return &PairwiseScorer{encoder: encoder}
}

// Score returns the cosine similarity of a and b, unclamped. Both texts go to
// the encoder in one call.
func (p *PairwiseScorer) Score(ctx context.Context, a, b string) (float64, error) {
	vecs, err := p.encoder.Encode(ctx, []string{a, b})
	if err != nil {
		return 0, domain.NewEncodingError("score", 2, err)
	}
	if len(vecs) != 2 {
		return 0, domain.NewEncodingError("score", 2, fmt.Errorf("encoder returned %d vectors for 2 texts", len(vecs)))
	}
	for i, vec := range vecs {
		if err := retriever.CheckFinite(vec); err != nil {
			return 0, domain.NewEncodingError("score", 2, fmt.Errorf("text %d: %w", i+1, err))
		}
	}
	metrics.RecordEncodeBatch("score", 2)
	return retriever.CosineSimilarity(vecs[0], vecs[1]), nil
}
