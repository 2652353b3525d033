package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"semsearch/internal/adapter/retriever"
	"semsearch/internal/domain"
	"semsearch/internal/metrics"
	"semsearch/internal/port"
)

// EmbeddingStore holds one embedding per corpus record, bound together as
// entries in row order. It is read-only once built.
type EmbeddingStore struct {
	entries   []domain.Entry
	dimension int
	model     string
}

// Entries returns the store's entries. Callers must not modify them.
func (s *EmbeddingStore) Entries() []domain.Entry { return s.entries }

func (s *EmbeddingStore) Len() int { return len(s.entries) }

func (s *EmbeddingStore) Dimension() int { return s.dimension }

func (s *EmbeddingStore) Model() string { return s.model }

// Vectors returns the embeddings in row order.
func (s *EmbeddingStore) Vectors() [][]float32 {
	out := make([][]float32, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Embedding
	}
	return out
}

// BuildOptions controls how BuildStore calls the encoder.
type BuildOptions struct {
	BatchSize int
	Workers   int
	// Progress is called with the number of records finished by each batch.
	// It may be called from several goroutines at once.
	Progress func(done int)
}

// StoreOptions controls OpenOrBuild.
type StoreOptions struct {
	Build        BuildOptions
	Strict       bool // also require the cached corpus fingerprint to match
	WriteOnBuild bool
}

// BuildStore encodes the TOKENIZE text of every record. Batches may run in
// parallel; each writes its own window of the result so row order holds.
func BuildStore(ctx context.Context, records []domain.Record, encoder port.Encoder, opts BuildOptions) (*EmbeddingStore, error) {
	start := time.Now()
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}
	workers := max(opts.Workers, 1)

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Tokenize
	}

	vectors := make([][]float32, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < len(texts); lo += batchSize {
		hi := min(lo+batchSize, len(texts))
		g.Go(func() error {
			op := fmt.Sprintf("build rows %d-%d", lo, hi-1)
			vecs, err := encoder.Encode(gctx, texts[lo:hi])
			if err != nil {
				return domain.NewEncodingError(op, hi-lo, err)
			}
			if len(vecs) != hi-lo {
				return domain.NewEncodingError(op, hi-lo,
					fmt.Errorf("encoder returned %d vectors for %d texts", len(vecs), hi-lo))
			}
			copy(vectors[lo:hi], vecs)
			metrics.RecordEncodeBatch("build", hi-lo)
			if opts.Progress != nil {
				opts.Progress(hi - lo)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "store_build_failed", slog.String("error", err.Error()))
		return nil, err
	}

	store, err := newEmbeddingStore(records, vectors, encoder.Version())
	if err != nil {
		return nil, domain.NewEncodingError("build", len(records), err)
	}

	slog.InfoContext(ctx, "store_build_completed",
		slog.Int("entries", store.Len()),
		slog.Int("dimension", store.Dimension()),
		slog.String("model", store.Model()),
		slog.Duration("elapsed", time.Since(start)),
	)
	metrics.SetStoreEntries(store.Len())
	return store, nil
}

// LoadStore binds cached embeddings to records. A cache whose vector count
// differs from the record count, or that was built by another model, is a
// ConfigurationError. With strict set the cached corpus fingerprint must
// match too.
func LoadStore(records []domain.Record, cache port.VectorCache, model string, strict bool) (*EmbeddingStore, error) {
	manifest, ok, err := cache.Manifest()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewConfigurationError(domain.ErrCacheMismatch, "cache artifact is empty")
	}

	vectors, err := cache.ReadAll()
	if err != nil {
		return nil, domain.NewConfigurationError(domain.ErrCacheMismatch, "unreadable cache artifact: %v", err)
	}
	if len(vectors) != len(records) {
		return nil, domain.NewConfigurationError(domain.ErrCacheMismatch,
			"cache holds %d embeddings but corpus has %d records", len(vectors), len(records))
	}
	if manifest.Count != len(vectors) {
		return nil, domain.NewConfigurationError(domain.ErrCacheMismatch,
			"manifest count %d does not match %d stored embeddings", manifest.Count, len(vectors))
	}
	if model != "" && manifest.Model != model {
		return nil, domain.NewConfigurationError(domain.ErrEncoderMismatch,
			"cache model %q, configured encoder %q", manifest.Model, model)
	}
	if strict && manifest.CorpusHash != Fingerprint(records) {
		return nil, domain.NewConfigurationError(domain.ErrCacheMismatch,
			"corpus content changed since the cache was built")
	}

	store, err := newEmbeddingStore(records, vectors, manifest.Model)
	if err != nil {
		return nil, domain.NewConfigurationError(domain.ErrCacheMismatch, "%v", err)
	}

	slog.Info("store_loaded",
		slog.Int("entries", store.Len()),
		slog.Int("dimension", store.Dimension()),
		slog.String("model", store.Model()),
		slog.Time("cache_created_at", manifest.CreatedAt),
	)
	metrics.SetStoreEntries(store.Len())
	return store, nil
}

// OpenOrBuild loads the store from cache when the cache has been written,
// and otherwise builds it, writing the cache when opts.WriteOnBuild is set.
// An existing cache that does not match never falls back to a rebuild.
// A nil cache always builds.
func OpenOrBuild(ctx context.Context, records []domain.Record, encoder port.Encoder, cache port.VectorCache, opts StoreOptions) (*EmbeddingStore, error) {
	if cache != nil {
		_, ok, err := cache.Manifest()
		if err != nil {
			return nil, err
		}
		if ok {
			return LoadStore(records, cache, encoder.Version(), opts.Strict)
		}
	}

	store, err := BuildStore(ctx, records, encoder, opts.Build)
	if err != nil {
		return nil, err
	}
	if cache != nil && opts.WriteOnBuild {
		if err := WriteCache(cache, records, store); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// WriteCache persists the store as the cache artifact for records.
func WriteCache(cache port.VectorCache, records []domain.Record, store *EmbeddingStore) error {
	manifest := domain.CacheManifest{
		Dimension:  store.Dimension(),
		Model:      store.Model(),
		CorpusHash: Fingerprint(records),
		CreatedAt:  time.Now().UTC(),
	}
	if err := cache.Replace(manifest, store.Vectors()); err != nil {
		return fmt.Errorf("failed to write embedding cache: %w", err)
	}
	slog.Info("cache_written", slog.Int("entries", store.Len()), slog.String("model", store.Model()))
	return nil
}

// Fingerprint hashes the ID and TOKENIZE text of every record in order.
func Fingerprint(records []domain.Record) string {
	h := sha256.New()
	for _, r := range records {
		h.Write([]byte(r.ID))
		h.Write([]byte{0})
		h.Write([]byte(r.Tokenize))
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func newEmbeddingStore(records []domain.Record, vectors [][]float32, model string) (*EmbeddingStore, error) {
	if len(records) != len(vectors) {
		return nil, fmt.Errorf("%d records but %d embeddings", len(records), len(vectors))
	}

	store := &EmbeddingStore{
		entries: make([]domain.Entry, len(records)),
		model:   model,
	}
	for i, r := range records {
		vec := vectors[i]
		if len(vec) == 0 {
			return nil, fmt.Errorf("row %d has an empty embedding", i)
		}
		if i == 0 {
			store.dimension = len(vec)
		} else if len(vec) != store.dimension {
			return nil, fmt.Errorf("row %d has dimension %d, expected %d", i, len(vec), store.dimension)
		}
		if err := retriever.CheckFinite(vec); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		store.entries[i] = domain.Entry{Row: i, Record: r, Embedding: vec}
	}
	return store, nil
}
