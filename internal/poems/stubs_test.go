package poems

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wgomg/versa/internal/scoring"
)

type stubAnalyzer struct {
	result *scoring.Result
	err    error
	texts  []string
}

func (a *stubAnalyzer) Analyze(ctx context.Context, text string) (*scoring.Result, error) {
	a.texts = append(a.texts, text)
	return a.result, a.err
}

type memoryStore struct {
	mu    sync.Mutex
	poems []Poem
	err   error
}

func (m *memoryStore) Create(ctx context.Context, poem *Poem) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	p := *poem
	p.ID = string(rune('a' + len(m.poems)))
	m.poems = append(m.poems, p)
	return p.ID, nil
}

func (m *memoryStore) Top(ctx context.Context, limit int) ([]Poem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	out := append([]Poem(nil), m.poems...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var errStoreDown = errors.New("store down")
