package usecase

import (
	"context"
	"fmt"

	"semsearch/internal/adapter/cache"
	"semsearch/internal/domain"
	"semsearch/internal/metrics"
)

// Ranker ranks corpus entries against a query.
type Ranker interface {
	Rank(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}

// SearchUseCase handles ranked search over the embedding store.
type SearchUseCase struct {
	ranker            Ranker
	cache             *cache.SearchCache // nil disables result caching
	minScoreThreshold float64            // Filter results below this score (0 = disabled)
}

// NewSearchUseCase creates a new search use case.
func NewSearchUseCase(ranker Ranker, resultCache *cache.SearchCache, minScoreThreshold float64) *SearchUseCase {
	return &SearchUseCase{
		ranker:            ranker,
		cache:             resultCache,
		minScoreThreshold: minScoreThreshold,
	}
}

// Search returns the topK records most similar to query, best first.
func (u *SearchUseCase) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if topK < 1 {
		return nil, domain.NewValidationError("top_k", fmt.Sprint(topK), domain.ErrInvalidTopK)
	}

	if u.cache != nil {
		if results, ok := u.cache.Get(query, topK); ok {
			metrics.RecordCacheLookup(true)
			return results, nil
		}
		metrics.RecordCacheLookup(false)
	}

	results, err := u.ranker.Rank(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	if u.minScoreThreshold > 0 {
		results = u.filterByThreshold(results)
	}

	if u.cache != nil {
		u.cache.Put(query, topK, results)
	}
	return results, nil
}

// filterByThreshold removes results below the minimum score threshold.
func (u *SearchUseCase) filterByThreshold(results []domain.SearchResult) []domain.SearchResult {
	filtered := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Score >= u.minScoreThreshold {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
