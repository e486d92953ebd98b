package syntax

import (
	"context"
	"fmt"

	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/lazy"
	"github.com/wgomg/versa/internal/scoring"
)

// NewHandle returns a lazily built parser for cfg, or nil when parsing is
// disabled.
func NewHandle(cfg *config.SyntaxConfig) *lazy.Handle[scoring.Parser] {
	switch cfg.Parser {
	case config.ParserNone:
		return nil
	case config.ParserProse:
		return lazy.Ready[scoring.Parser](NewProseParser())
	default:
		return lazy.New(Loader(cfg))
	}
}

func Loader(cfg *config.SyntaxConfig) lazy.Loader[scoring.Parser] {
	return func(ctx context.Context) (scoring.Parser, error) {
		switch cfg.Parser {
		case config.ParserProse:
			return NewProseParser(), nil
		case config.ParserKagome:
			p, err := NewKagomeParser()
			if err != nil {
				return nil, err
			}
			return p, nil
		default:
			return nil, fmt.Errorf("unknown syntax parser %q", cfg.Parser)
		}
	}
}
