package semantic

import (
	"context"
	"fmt"
	"io"

	"github.com/wgomg/versa/internal/scoring"
	"github.com/wgomg/versa/internal/utils"
)

// CachedEmbedder serves repeated texts (anchors, common lines) from memory.
// Only successful embeddings are stored.
type CachedEmbedder struct {
	next  scoring.Embedder
	cache *utils.EmbeddingCache
}

func NewCachedEmbedder(next scoring.Embedder, capacity int) *CachedEmbedder {
	return &CachedEmbedder{
		next:  next,
		cache: utils.NewEmbeddingCache(capacity),
	}
}

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	found := make(map[string][]float64, len(texts))
	missing := c.cache.GetMissing(texts, found)

	if len(missing) > 0 {
		vectors, err := c.next.Embed(ctx, missing)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(missing) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(missing))
		}
		for i, text := range missing {
			found[text] = vectors[i]
			c.cache.Add(text, vectors[i])
		}
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = found[text]
	}
	return out, nil
}

func (c *CachedEmbedder) HitRate() float64 {
	return c.cache.HitRate()
}

func (c *CachedEmbedder) Close() error {
	if closer, ok := c.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
