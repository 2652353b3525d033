package port

import "semsearch/internal/domain"

// VectorCache persists an aligned list of embeddings between process runs.
type VectorCache interface {
	// Manifest returns the stored manifest, or ok=false if the cache is empty.
	Manifest() (manifest domain.CacheManifest, ok bool, err error)

	// ReadAll returns the cached vectors in row order.
	ReadAll() ([][]float32, error)

	// Replace overwrites the cache contents with vectors and manifest.
	Replace(manifest domain.CacheManifest, vectors [][]float32) error

	Close() error
}
