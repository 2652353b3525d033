package embedding

import (
	"time"

	"semsearch/config"
	"semsearch/internal/domain"
	"semsearch/internal/port"
)

// New builds the encoder selected by cfg.Embedding.Provider. The hash
// provider tokenizes with the corpus analyzer settings.
func New(root *config.Config) (port.Encoder, error) {
	cfg := root.Embedding
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second

	var enc port.Encoder
	var err error
	switch cfg.Provider {
	case "ollama":
		enc = NewOllamaEncoder(cfg.BaseURL, cfg.Model, timeout)
	case "openai":
		if cfg.BaseURL != "" {
			enc, err = NewOpenAICompatibleEncoder(cfg.APIKeyEnv, cfg.Model, cfg.BaseURL, timeout)
		} else {
			enc, err = NewOpenAIEncoder(cfg.APIKeyEnv, cfg.Model, timeout)
		}
	case "deepseek":
		enc, err = NewDeepSeekEncoder(cfg.APIKeyEnv, cfg.Model, timeout)
	case "jina":
		enc, err = NewJinaEncoder(cfg.APIKeyEnv, cfg.Model, timeout)
	case "hash":
		return NewHashEncoder(cfg.Dimension, root.Corpus.Stemming), nil
	default:
		return nil, domain.NewConfigurationError(domain.ErrUnknownProvider, "%q", cfg.Provider)
	}
	if err != nil {
		return nil, domain.NewConfigurationError(err, "create %s encoder", cfg.Provider)
	}

	if cfg.RequestsPerSecond > 0 {
		enc = NewRateLimitedEncoder(enc, cfg.RequestsPerSecond, max(1, cfg.Workers))
	}
	return enc, nil
}
