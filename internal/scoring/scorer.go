package scoring

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wgomg/versa/internal/lazy"
	"github.com/wgomg/versa/internal/utils"
)

const modelLoadFailed = "model loading failed"

type Scorer struct {
	logger       *utils.Logger
	embedder     *lazy.Handle[Embedder]
	parser       *lazy.Handle[Parser]
	embedTimeout time.Duration
}

// NewScorer wires the scorer to its providers. parser may be nil, in which
// case structural density and cohesion are always 0. A zero embedTimeout
// disables the per-call embedding deadline.
func NewScorer(
	logger *utils.Logger,
	embedder *lazy.Handle[Embedder],
	parser *lazy.Handle[Parser],
	embedTimeout time.Duration,
) *Scorer {
	return &Scorer{
		logger:       logger,
		embedder:     embedder,
		parser:       parser,
		embedTimeout: embedTimeout,
	}
}

// Analyze scores one poem. The returned result is always non-nil. The error
// is non-nil only for ErrEmptyPoem and ErrProviderUnavailable; every other
// failure is logged and lowers a single sub-score.
func (s *Scorer) Analyze(ctx context.Context, text string) (*Result, error) {
	reqID := utils.RequestID(ctx)

	if strings.TrimSpace(text) == "" {
		s.logger.Info(reqID, "Analyze called with empty text")
		return &Result{
			Score:     0,
			Breakdown: &Breakdown{},
			Error:     ErrEmptyPoem.Error(),
		}, ErrEmptyPoem
	}

	embedder, err := s.embedder.Get(ctx)
	if err != nil {
		s.logger.Error(reqID, "Embedding model not available: %v", err)
		return &Result{Score: 0, Error: modelLoadFailed}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	parsed := s.parse(ctx, text)

	var sub SubScores
	sub.WordDiversity = WordDiversity(text)
	sub.StructuralDensity = StructuralDensity(parsed)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		s.guard(reqID, "sentiment/theme", func() error {
			embedCtx, cancel := s.withEmbedTimeout(ctx)
			defer cancel()

			var err error
			sub.Sentiment, sub.ThemeMatch, err = SentimentAndTheme(embedCtx, embedder, text)
			return err
		}, func() {
			sub.Sentiment, sub.ThemeMatch = DegradedDefault, DegradedDefault
		})
	}()

	go func() {
		defer wg.Done()
		s.guard(reqID, "cohesion", func() error {
			embedCtx, cancel := s.withEmbedTimeout(ctx)
			defer cancel()

			var err error
			sub.Cohesion, err = Cohesion(embedCtx, embedder, parsed)
			return err
		}, func() {
			sub.Cohesion = DegradedDefault
		})
	}()

	wg.Wait()

	result := Aggregate(sub)
	s.logger.Debug(reqID,
		"Poem scored: score=%d word_diversity=%.4f structural_density=%.4f sentiment=%.4f theme_match=%.4f cohesion=%.4f",
		result.Score, sub.WordDiversity, sub.StructuralDensity, sub.Sentiment, sub.ThemeMatch, sub.Cohesion,
	)

	return result, nil
}

// parse returns nil when no parser is configured or it fails.
func (s *Scorer) parse(ctx context.Context, text string) (parsed *ParseResult) {
	reqID := utils.RequestID(ctx)

	if s.parser == nil {
		s.logger.Info(reqID, "No syntactic parser configured, structural density and cohesion will be 0")
		return nil
	}

	parser, err := s.parser.Get(ctx)
	if err != nil {
		s.logger.Error(reqID, "Syntactic parser not available: %v", err)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(reqID, "Parser panicked: %v", r)
			parsed = nil
		}
	}()

	parsed, err = parser.Parse(text)
	if err != nil {
		s.logger.Error(reqID, "Failed to parse poem: %v", err)
		return nil
	}
	if parsed != nil && parsed.Words == 0 {
		s.logger.Info(reqID, "Parser found no words")
	}
	return parsed
}

// guard runs one analyzer, turning both errors and panics into its
// degraded default.
func (s *Scorer) guard(reqID *string, name string, run func() error, degrade func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(reqID, "Analyzer %s panicked: %v", name, r)
			degrade()
		}
	}()

	if err := run(); err != nil {
		s.logger.Error(reqID, "Analyzer %s failed: %v", name, err)
		degrade()
	}
}

func (s *Scorer) withEmbedTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.embedTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.embedTimeout)
}

// Ready reports whether the embedding provider has finished loading.
func (s *Scorer) Ready() bool {
	_, ok := s.embedder.Loaded()
	return ok
}
