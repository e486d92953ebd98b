package semantic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/utils"
)

const maxRetries = 3

var (
	rateLimitWaitTimes   = []time.Duration{2 * time.Second, 5 * time.Second, 10 * time.Second}
	serverErrorWaitTimes = []time.Duration{500 * time.Millisecond, 2 * time.Second, 5 * time.Second}
)

type OpenAIEmbedder struct {
	logger     *utils.Logger
	client     openai.Client
	model      string
	dimensions int
}

func NewOpenAIEmbedder(logger *utils.Logger, cfg *config.SemanticConfig) *OpenAIEmbedder {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAI.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}

	return &OpenAIEmbedder{
		logger:     logger,
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: openai.Int(int64(e.dimensions)),
	}

	start := time.Now()
	resp, err := e.callWithRetry(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, fmt.Errorf("openai embeddings: index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	if err := checkDimensions(vectors, e.dimensions); err != nil {
		return nil, err
	}

	e.logger.Debug(utils.RequestID(ctx), "OpenAI embedded %d texts in %v", len(texts), time.Since(start))
	return vectors, nil
}

func (e *OpenAIEmbedder) callWithRetry(ctx context.Context, params openai.EmbeddingNewParams) (*openai.CreateEmbeddingResponse, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := e.client.Embeddings.New(ctx, params)
		if err == nil {
			return resp, nil
		}

		var wait time.Duration
		switch {
		case isRateLimitError(err):
			wait = rateLimitWaitTimes[attempt]
		case isServerError(err):
			wait = serverErrorWaitTimes[attempt]
		default:
			return nil, err
		}

		if attempt == maxRetries-1 {
			return nil, err
		}

		e.logger.Debug(utils.RequestID(ctx), "OpenAI request failed (attempt %d), retrying in %v: %v", attempt+1, wait, err)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("failed after %d attempts due to OpenAI API issues", maxRetries)
}

func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

func isServerError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}
