package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, 64, cfg.Embedding.BatchSize)
	assert.Equal(t, 5, cfg.Search.DefaultTopK)
	assert.Equal(t, int64(42), cfg.Cluster.Seed)
	assert.True(t, cfg.Cache.Strict)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "semsearch.yaml")

	content := `
embedding:
  provider: hash
  dimension: 256
cluster:
  seed: 7
search:
  default_top_k: 10
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "hash", cfg.Embedding.Provider)
	assert.Equal(t, 256, cfg.Embedding.Dimension)
	assert.Equal(t, int64(7), cfg.Cluster.Seed)
	assert.Equal(t, 10, cfg.Search.DefaultTopK)
	// untouched sections keep their defaults
	assert.Equal(t, ":8000", cfg.Server.Addr)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".semsearch"), 0755))

	content := `
cluster:
  max_iterations: 12
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".semsearch", "config.yaml"), []byte(content), 0644))

	cfg, err := LoadFromDir(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Cluster.MaxIterations)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semsearch.yaml")
	cfg := DefaultConfig()
	cfg.Corpus.Path = "data/faq.csv"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/faq.csv", loaded.Corpus.Path)
}

func TestCacheDBPath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/srv/app", ".semsearch", "embeddings.db"), cfg.CacheDBPath("/srv/app"))

	cfg.Cache.Path = "store/vectors.db"
	assert.Equal(t, filepath.Join("/srv/app", "store", "vectors.db"), cfg.CacheDBPath("/srv/app"))

	cfg.Cache.Path = "/var/lib/semsearch.db"
	assert.Equal(t, "/var/lib/semsearch.db", cfg.CacheDBPath("/srv/app"))
}
