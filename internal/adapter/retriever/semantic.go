package retriever

import (
	"context"
	"fmt"
	"slices"

	"semsearch/internal/domain"
	"semsearch/internal/port"
)

// SemanticRanker ranks corpus entries by cosine similarity to a query.
type SemanticRanker struct {
	index   port.EntryIndex
	encoder port.Encoder
}

func NewSemanticRanker(index port.EntryIndex, encoder port.Encoder) *SemanticRanker {
	return &SemanticRanker{
		index:   index,
		encoder: encoder,
	}
}

type scoredEntry struct {
	entry *domain.Entry
	score float64
}

// Rank returns the topK entries most similar to query, best first. Equal scores
// keep corpus row order. topK larger than the corpus returns the whole corpus.
func (r *SemanticRanker) Rank(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if topK < 1 {
		return nil, domain.NewValidationError("top_k", fmt.Sprint(topK), domain.ErrInvalidTopK)
	}

	entries := r.index.Entries()
	if len(entries) == 0 {
		return []domain.SearchResult{}, nil
	}

	queryVec, err := port.EncodeOne(ctx, r.encoder, query)
	if err != nil {
		return nil, domain.NewEncodingError("rank", 1, err)
	}
	if err := CheckFinite(queryVec); err != nil {
		return nil, domain.NewEncodingError("rank", 1, err)
	}

	scores := make([]scoredEntry, len(entries))
	for i := range entries {
		scores[i] = scoredEntry{
			entry: &entries[i],
			score: CosineSimilarity(queryVec, entries[i].Embedding),
		}
	}

	slices.SortStableFunc(scores, func(a, b scoredEntry) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	k := min(topK, len(scores))
	results := make([]domain.SearchResult, k)
	for i := 0; i < k; i++ {
		rec := scores[i].entry.Record
		results[i] = domain.SearchResult{
			ID:       rec.ID,
			Question: rec.Question,
			Answer:   rec.Answer,
			Score:    scores[i].score,
		}
	}

	return results, nil
}
