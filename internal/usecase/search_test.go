package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semsearch/internal/adapter/cache"
	"semsearch/internal/adapter/retriever"
	"semsearch/internal/domain"
	"semsearch/internal/testutil"
)

func newSearchFixture(t *testing.T, minScore float64) (*SearchUseCase, *testutil.FixtureEncoder) {
	t.Helper()
	enc := testutil.NewFixtureEncoder(testutil.SemanticVectors())
	s, err := BuildStore(context.Background(), corpusRecords(), enc, BuildOptions{})
	require.NoError(t, err)

	results, err := cache.NewSearchCache(16)
	require.NoError(t, err)
	return NewSearchUseCase(retriever.NewSemanticRanker(s, enc), results, minScore), enc
}

func TestSearch_RanksCatsAboveMarkets(t *testing.T) {
	uc, _ := newSearchFixture(t, 0)

	results, err := uc.Search(context.Background(), "a cat is sitting somewhere", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "2", results[1].ID)
	assert.Equal(t, "3", results[2].ID)
	assert.Greater(t, results[1].Score, results[2].Score)
}

func TestSearch_CacheHitMatchesUncached(t *testing.T) {
	uc, enc := newSearchFixture(t, 0)
	ctx := context.Background()

	first, err := uc.Search(ctx, "a cat is sitting somewhere", 2)
	require.NoError(t, err)
	callsAfterFirst, _ := enc.Calls()

	second, err := uc.Search(ctx, "a cat is sitting somewhere", 2)
	require.NoError(t, err)
	calls, _ := enc.Calls()

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, calls)

	// Mutating a returned slice must not leak into the cache.
	second[0].Score = -1
	third, err := uc.Search(ctx, "a cat is sitting somewhere", 2)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestSearch_MinScoreFilters(t *testing.T) {
	uc, _ := newSearchFixture(t, 0.5)

	results, err := uc.Search(context.Background(), "a cat is sitting somewhere", 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.5)
	}
}

func TestSearch_InvalidTopK(t *testing.T) {
	uc, enc := newSearchFixture(t, 0)
	callsBefore, _ := enc.Calls()

	_, err := uc.Search(context.Background(), "cat", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidTopK)
	assert.ErrorIs(t, err, domain.ErrValidation)

	calls, _ := enc.Calls()
	assert.Equal(t, callsBefore, calls)
}

func TestSearch_WithoutCache(t *testing.T) {
	enc := testutil.NewFixtureEncoder(testutil.SemanticVectors())
	s, err := BuildStore(context.Background(), corpusRecords(), enc, BuildOptions{})
	require.NoError(t, err)
	uc := NewSearchUseCase(retriever.NewSemanticRanker(s, enc), nil, 0)

	results, err := uc.Search(context.Background(), "cat", 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}
