package testutil

import (
	"sync"

	"semsearch/internal/domain"
)

// MemoryCache is an in-memory port.VectorCache.
type MemoryCache struct {
	mu       sync.Mutex
	manifest *domain.CacheManifest
	vectors  [][]float32
	writes   int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Seed stores vectors with a manifest without counting as a write.
func (c *MemoryCache) Seed(manifest domain.CacheManifest, vectors [][]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	manifest.Count = len(vectors)
	c.manifest = &manifest
	c.vectors = vectors
}

func (c *MemoryCache) Manifest() (domain.CacheManifest, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.manifest == nil {
		return domain.CacheManifest{}, false, nil
	}
	return *c.manifest, true, nil
}

func (c *MemoryCache) ReadAll() ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]float32(nil), c.vectors...), nil
}

func (c *MemoryCache) Replace(manifest domain.CacheManifest, vectors [][]float32) error {
	manifest.Count = len(vectors)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifest = &manifest
	c.vectors = append([][]float32(nil), vectors...)
	c.writes++
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// Writes reports how many times Replace was called.
func (c *MemoryCache) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}
