package cache

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"semsearch/internal/domain"
)

// SearchCache memoises ranked results per (query, topK). The embedding store
// never changes after startup, so entries never go stale.
type SearchCache struct {
	entries *lru.Cache[string, []domain.SearchResult]
}

func NewSearchCache(maxSize int) (*SearchCache, error) {
	if maxSize <= 0 {
		maxSize = 256
	}
	entries, err := lru.New[string, []domain.SearchResult](maxSize)
	if err != nil {
		return nil, err
	}
	return &SearchCache{entries: entries}, nil
}

func cacheKey(query string, topK int) string {
	return strconv.Itoa(topK) + "\x00" + query
}

// Get returns a copy of the cached results so callers cannot mutate the entry.
func (c *SearchCache) Get(query string, topK int) ([]domain.SearchResult, bool) {
	results, ok := c.entries.Get(cacheKey(query, topK))
	if !ok {
		return nil, false
	}
	return append([]domain.SearchResult(nil), results...), true
}

func (c *SearchCache) Put(query string, topK int, results []domain.SearchResult) {
	c.entries.Add(cacheKey(query, topK), append([]domain.SearchResult(nil), results...))
}

func (c *SearchCache) Len() int {
	return c.entries.Len()
}
