package scoring

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type stubEmbedder struct {
	vectors  map[string][]float64
	fallback []float64
	fail     func(texts []string) error
	delay    time.Duration

	mu      sync.Mutex
	batches [][]string
}

func (e *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	e.mu.Lock()
	e.batches = append(e.batches, append([]string(nil), texts...))
	e.mu.Unlock()

	if e.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.delay):
		}
	}

	if e.fail != nil {
		if err := e.fail(texts); err != nil {
			return nil, err
		}
	}

	out := make([][]float64, len(texts))
	for i, t := range texts {
		if v, ok := e.vectors[t]; ok {
			out[i] = v
			continue
		}
		out[i] = e.fallback
	}
	return out, nil
}

func (e *stubEmbedder) calls() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.batches
}

type stubParser struct {
	result *ParseResult
	err    error
	panics bool
	calls  atomic.Int32
}

func (p *stubParser) Parse(text string) (*ParseResult, error) {
	p.calls.Add(1)
	if p.panics {
		panic("tagger exploded")
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}
