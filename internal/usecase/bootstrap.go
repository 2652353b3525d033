package usecase

import (
	"context"
	"fmt"

	"semsearch/config"
	"semsearch/internal/adapter/analyzer"
	"semsearch/internal/adapter/corpus"
	"semsearch/internal/adapter/store"
	"semsearch/internal/domain"
	"semsearch/internal/port"
)

// LoadRecords reads the configured corpus relative to dir.
func LoadRecords(ctx context.Context, cfg *config.Config, dir string) ([]domain.Record, error) {
	var tokenizer *analyzer.Tokenizer
	if cfg.Corpus.TokenizeFallback {
		tokenizer = analyzer.NewTokenizer(cfg.Corpus.Stemming)
	}
	return corpus.NewCSVSource(dir, cfg.Corpus.Path, cfg.Corpus.Excludes, tokenizer).Records(ctx)
}

// OpenStore loads the embedding store from the cache artifact under dir, or
// builds it when no artifact exists. The cache file is closed before return.
func OpenStore(ctx context.Context, cfg *config.Config, dir string, records []domain.Record, encoder port.Encoder, progress func(int)) (*EmbeddingStore, error) {
	opts := StoreOptions{
		Build: BuildOptions{
			BatchSize: cfg.Embedding.BatchSize,
			Workers:   cfg.Embedding.Workers,
			Progress:  progress,
		},
		Strict:       cfg.Cache.Strict,
		WriteOnBuild: cfg.Cache.WriteOnBuild,
	}

	if !cfg.Cache.Enabled {
		return OpenOrBuild(ctx, records, encoder, nil, opts)
	}

	if err := cfg.EnsureDataDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	cache, err := store.OpenBoltCache(cfg.CacheDBPath(dir))
	if err != nil {
		return nil, domain.NewConfigurationError(err, "open embedding cache")
	}
	defer cache.Close()

	return OpenOrBuild(ctx, records, encoder, cache, opts)
}

// RebuildCache encodes records from scratch and overwrites the cache
// artifact under dir.
func RebuildCache(ctx context.Context, cfg *config.Config, dir string, records []domain.Record, encoder port.Encoder, progress func(int)) (*EmbeddingStore, error) {
	s, err := BuildStore(ctx, records, encoder, BuildOptions{
		BatchSize: cfg.Embedding.BatchSize,
		Workers:   cfg.Embedding.Workers,
		Progress:  progress,
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.EnsureDataDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	cache, err := store.OpenBoltCache(cfg.CacheDBPath(dir))
	if err != nil {
		return nil, domain.NewConfigurationError(err, "open embedding cache")
	}
	defer cache.Close()

	if err := WriteCache(cache, records, s); err != nil {
		return nil, err
	}
	return s, nil
}
