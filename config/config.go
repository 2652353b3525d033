package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the semantic search service.
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
	Cluster   ClusterConfig   `yaml:"cluster"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CorpusConfig describes where the question/answer table lives.
type CorpusConfig struct {
	Path             string   `yaml:"path"` // file or doublestar glob, relative to the root dir
	Excludes         []string `yaml:"excludes"`
	TokenizeFallback bool     `yaml:"tokenize_fallback"` // derive TOKENIZE from QUESTION when blank
	Stemming         bool     `yaml:"stemming"`
}

// EmbeddingConfig holds encoder configuration.
type EmbeddingConfig struct {
	Provider          string  `yaml:"provider"` // "ollama", "openai", "jina", "deepseek", "hash"
	Model             string  `yaml:"model"`
	BaseURL           string  `yaml:"base_url"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	Dimension         int     `yaml:"dimension"`
	BatchSize         int     `yaml:"batch_size"`
	Workers           int     `yaml:"workers"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // 0 = unlimited
}

// CacheConfig holds embedding cache artifact configuration.
type CacheConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Path         string `yaml:"path"` // empty = <dir>/.semsearch/embeddings.db
	Strict       bool   `yaml:"strict"`
	WriteOnBuild bool   `yaml:"write_on_build"`
}

// SearchConfig holds ranking configuration.
type SearchConfig struct {
	DefaultTopK int     `yaml:"default_top_k"`
	CacheSize   int     `yaml:"cache_size"`
	MinScore    float64 `yaml:"min_score"` // Filter results below this score (0 = disabled)
}

// ClusterConfig holds clustering configuration.
type ClusterConfig struct {
	Seed          int64   `yaml:"seed"`
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxConcurrent int     `yaml:"max_concurrent"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	CORSOrigins     []string `yaml:"cors_origins"`
	ShutdownTimeout int      `yaml:"shutdown_timeout_secs"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Path:             "store/csv/*.csv",
			TokenizeFallback: true,
			Stemming:         false,
		},
		Embedding: EmbeddingConfig{
			Provider:    "ollama",
			Model:       "nomic-embed-text",
			BaseURL:     "http://localhost:11434",
			APIKeyEnv:   "OPENAI_API_KEY",
			Dimension:   768,
			BatchSize:   64,
			Workers:     2,
			TimeoutSecs: 120,
		},
		Cache: CacheConfig{
			Enabled:      true,
			Strict:       true,
			WriteOnBuild: true,
		},
		Search: SearchConfig{
			DefaultTopK: 5,
			CacheSize:   256,
		},
		Cluster: ClusterConfig{
			Seed:          42,
			MaxIterations: 100,
			Tolerance:     1e-6,
			MaxConcurrent: 2,
		},
		Server: ServerConfig{
			Addr:            ":8000",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for semsearch.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "semsearch.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".semsearch", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CacheDBPath returns the path to the embedding cache artifact.
func (c *Config) CacheDBPath(dir string) string {
	if c.Cache.Path == "" {
		return filepath.Join(dir, ".semsearch", "embeddings.db")
	}
	if filepath.IsAbs(c.Cache.Path) {
		return c.Cache.Path
	}
	return filepath.Join(dir, c.Cache.Path)
}

// EnsureDataDir ensures the parent directory of the cache artifact exists.
func (c *Config) EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Dir(c.CacheDBPath(dir)), 0755)
}
