package cli

import (
	"context"
	"fmt"

	"semsearch/internal/adapter/cache"
	"semsearch/internal/adapter/embedding"
	"semsearch/internal/adapter/retriever"
	"semsearch/internal/port"
	"semsearch/internal/usecase"
)

// services holds the components built from the loaded config.
type services struct {
	encoder port.Encoder
	store   *usecase.EmbeddingStore
	search  *usecase.SearchUseCase
	scorer  *usecase.PairwiseScorer
	cluster *usecase.ClusterEngine
}

// newServices builds the encoder and, when withStore is set, loads the
// corpus and its embedding store.
func newServices(ctx context.Context, withStore bool) (*services, error) {
	cfg := GetConfig()
	dir := GetRootDir()

	encoder, err := embedding.New(cfg)
	if err != nil {
		return nil, err
	}

	svc := &services{
		encoder: encoder,
		scorer:  usecase.NewPairwiseScorer(encoder),
		cluster: usecase.NewClusterEngine(encoder, usecase.ClusterOptions{
			Seed:          cfg.Cluster.Seed,
			MaxIterations: cfg.Cluster.MaxIterations,
			Tolerance:     cfg.Cluster.Tolerance,
			MaxConcurrent: cfg.Cluster.MaxConcurrent,
		}),
	}
	if !withStore {
		return svc, nil
	}

	records, err := usecase.LoadRecords(ctx, cfg, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	svc.store, err = usecase.OpenStore(ctx, cfg, dir, records, encoder, nil)
	if err != nil {
		return nil, err
	}

	results, err := cache.NewSearchCache(cfg.Search.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}
	svc.search = usecase.NewSearchUseCase(
		retriever.NewSemanticRanker(svc.store, encoder),
		results,
		cfg.Search.MinScore,
	)
	return svc, nil
}
