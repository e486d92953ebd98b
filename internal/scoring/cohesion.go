package scoring

import (
	"context"
	"fmt"
	"strings"
)

// Cohesion averages the similarity of each adjacent sentence pair. A single
// sentence scores NeutralCohesion; no sentences score 0.
func Cohesion(ctx context.Context, embedder Embedder, parsed *ParseResult) (float64, error) {
	if parsed == nil {
		return DegradedDefault, nil
	}

	sentences := make([]string, 0, len(parsed.Sentences))
	for _, s := range parsed.Sentences {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}

	switch len(sentences) {
	case 0:
		return DegradedDefault, nil
	case 1:
		return NeutralCohesion, nil
	}

	vectors, err := embedder.Embed(ctx, sentences)
	if err != nil {
		return DegradedDefault, fmt.Errorf("embed sentences: %w", err)
	}
	if err := validateVectors(vectors, len(sentences)); err != nil {
		return DegradedDefault, err
	}

	total := 0.0
	for i := 0; i < len(vectors)-1; i++ {
		total += CosineSimilarity(vectors[i], vectors[i+1])
	}
	mean := total / float64(len(vectors)-1)

	return toUnit(mean), nil
}
