package semantic

import (
	"context"
	"fmt"
	"time"

	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/lazy"
	"github.com/wgomg/versa/internal/scoring"
	"github.com/wgomg/versa/internal/utils"
)

// defaultCheckTimeout bounds the startup check when no request timeout is
// configured.
const defaultCheckTimeout = 30 * time.Second

// Loader builds the configured embedding provider on first use. A provider
// that cannot embed a single anchor is reported as a failed load so the
// next request tries again.
func Loader(logger *utils.Logger, cfg *config.SemanticConfig) lazy.Loader[scoring.Embedder] {
	return func(ctx context.Context) (scoring.Embedder, error) {
		var embedder scoring.Embedder

		switch cfg.Provider {
		case config.ProviderOpenAI:
			logger.Info(nil, "Using OpenAI embeddings (model=%s, dimensions=%d)", cfg.Model, cfg.Dimensions)
			client := NewOpenAIEmbedder(logger, cfg)
			if err := checkEmbedder(ctx, cfg, client); err != nil {
				return nil, fmt.Errorf("openai health check: %w", err)
			}
			embedder = client

		case config.ProviderPython:
			pool := NewPythonEmbedder(logger, cfg)
			if err := pool.Initialize(ctx); err != nil {
				pool.Close()
				return nil, fmt.Errorf("failed to initialize python embedder: %w", err)
			}
			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout(cfg))
			err := pool.HealthCheck(checkCtx)
			cancel()
			if err != nil {
				pool.Close()
				return nil, err
			}
			embedder = pool

		default:
			return nil, fmt.Errorf("unknown semantic provider %q", cfg.Provider)
		}

		return NewCachedEmbedder(embedder, cfg.CacheSize), nil
	}
}

func checkEmbedder(ctx context.Context, cfg *config.SemanticConfig, e scoring.Embedder) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout(cfg))
	defer cancel()

	vectors, err := e.Embed(ctx, scoring.ThemeAnchors[:1])
	if err != nil {
		return err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return fmt.Errorf("empty embedding")
	}
	return nil
}

func checkTimeout(cfg *config.SemanticConfig) time.Duration {
	if cfg.TimeoutMs > 0 {
		return time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	return defaultCheckTimeout
}
