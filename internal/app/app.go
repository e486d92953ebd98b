// Package app wires configuration into the scorer, the poem store and the
// submission service shared by every entry point.
package app

import (
	"io"
	"time"

	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/lazy"
	"github.com/wgomg/versa/internal/poems"
	"github.com/wgomg/versa/internal/scoring"
	"github.com/wgomg/versa/internal/semantic"
	"github.com/wgomg/versa/internal/syntax"
	"github.com/wgomg/versa/internal/utils"
)

type App struct {
	Scorer   *scoring.Scorer
	Store    poems.Store
	Poems    *poems.Service
	embedder *lazy.Handle[scoring.Embedder]
	logger   *utils.Logger
}

// NewScorer builds a scorer whose embedding provider loads on first use.
func NewScorer(cfg *config.Config, logger *utils.Logger) (*scoring.Scorer, *lazy.Handle[scoring.Embedder]) {
	embedder := lazy.New(semantic.Loader(logger, &cfg.Semantic))
	parser := syntax.NewHandle(&cfg.Syntax)
	timeout := time.Duration(cfg.Semantic.TimeoutMs) * time.Millisecond

	return scoring.NewScorer(logger, embedder, parser, timeout), embedder
}

func New(cfg *config.Config, logger *utils.Logger) (*App, error) {
	scorer, embedder := NewScorer(cfg, logger)

	store, err := poems.NewStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Scorer:   scorer,
		Store:    store,
		Poems:    poems.NewService(logger, scorer, store, cfg.App.MaxPoemWords),
		embedder: embedder,
		logger:   logger,
	}, nil
}

// Close stops the embedding provider, if it was ever loaded, and the
// store.
func (a *App) Close() {
	if e, ok := a.embedder.Loaded(); ok {
		if closer, ok := e.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				a.logger.Error(nil, "Failed to close embedder: %v", err)
			}
		}
	}
	if closer, ok := a.Store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Error(nil, "Failed to close store: %v", err)
		}
	}
}
