package scoring

import (
	"context"
	"fmt"
)

// anchorBatch is the single embedding request for sentiment and theme
// scoring: the poem, the two sentiment anchors, then every theme.
func anchorBatch(text string) []string {
	batch := make([]string, 0, 3+len(ThemeAnchors))
	batch = append(batch, text, SentimentPositiveAnchor, SentimentNegativeAnchor)
	return append(batch, ThemeAnchors...)
}

// SentimentAndTheme embeds the poem together with the anchor terms in one
// call. Any provider or response error yields 0 for both sub-scores.
func SentimentAndTheme(ctx context.Context, embedder Embedder, text string) (sentiment, theme float64, err error) {
	batch := anchorBatch(text)

	vectors, err := embedder.Embed(ctx, batch)
	if err != nil {
		return DegradedDefault, DegradedDefault, fmt.Errorf("embed anchors: %w", err)
	}
	if err := validateVectors(vectors, len(batch)); err != nil {
		return DegradedDefault, DegradedDefault, err
	}

	poem, happy, sad := vectors[0], vectors[1], vectors[2]

	sentiment = toUnit(CosineSimilarity(poem, happy) - CosineSimilarity(poem, sad))

	best := -1.0
	for _, themeVec := range vectors[3:] {
		if sim := CosineSimilarity(poem, themeVec); sim > best {
			best = sim
		}
	}
	theme = toUnit(best)

	return sentiment, theme, nil
}

func validateVectors(vectors [][]float64, want int) error {
	if len(vectors) != want {
		return fmt.Errorf("embedding provider returned %d vectors for %d texts", len(vectors), want)
	}

	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("embedding provider returned an empty vector")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("embedding %d has dimension %d, expected %d", i, len(v), dim)
		}
	}
	return nil
}
