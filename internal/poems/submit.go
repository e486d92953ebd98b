package poems

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wgomg/versa/internal/scoring"
	"github.com/wgomg/versa/internal/utils"
)

const maxFieldLength = 127

var (
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrNotSaved          = errors.New("poem could not be saved")
)

type Analyzer interface {
	Analyze(ctx context.Context, text string) (*scoring.Result, error)
}

type Submission struct {
	Author string `json:"author" jsonschema:"required,minLength=1,description=Poet name"`
	Title  string `json:"title,omitempty" jsonschema:"description=Poem title (defaults to Untitled)"`
	Poem   string `json:"poem" jsonschema:"required,minLength=1,description=Poem text"`
}

type Submitted struct {
	ID string `json:"id,omitempty"`
	*scoring.Result
	Message string `json:"message"`
}

// Service scores a submission and records it on the leaderboard.
type Service struct {
	logger   *utils.Logger
	analyzer Analyzer
	store    Store
	maxWords int
}

func NewService(logger *utils.Logger, analyzer Analyzer, store Store, maxWords int) *Service {
	return &Service{
		logger:   logger,
		analyzer: analyzer,
		store:    store,
		maxWords: maxWords,
	}
}

// Submit returns a nil Submitted only for invalid input. When scoring
// fails with scoring.ErrProviderUnavailable nothing is stored; when the
// store fails the scored result is returned with an error wrapping
// ErrNotSaved.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Submitted, error) {
	reqID := utils.RequestID(ctx)

	sub, err := s.normalize(sub)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, sub.Poem)
	if err != nil {
		return &Submitted{Result: result, Message: result.Error}, err
	}

	poem := &Poem{
		Author: sub.Author,
		Title:  sub.Title,
		Poem:   sub.Poem,
		Score:  result.Score,
	}

	id, err := s.store.Create(ctx, poem)
	if err != nil {
		s.logger.Error(reqID, "Failed to save poem by %s: %v", sub.Author, err)
		return &Submitted{
			Result:  result,
			Message: fmt.Sprintf("Poem analyzed with score %d/100, but could not save.", result.Score),
		}, fmt.Errorf("%w: %v", ErrNotSaved, err)
	}

	s.logger.Info(reqID, "Saved poem %s by %s with score %d", id, sub.Author, result.Score)
	return &Submitted{
		ID:      id,
		Result:  result,
		Message: fmt.Sprintf("That was lovely, %s! You got %d out of 100!", sub.Author, result.Score),
	}, nil
}

func (s *Service) Top(ctx context.Context, limit int) ([]Poem, error) {
	return s.store.Top(ctx, limit)
}

func (s *Service) normalize(sub Submission) (Submission, error) {
	sub.Author = strings.TrimSpace(sub.Author)
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Poem = strings.TrimSpace(sub.Poem)

	if sub.Author == "" || sub.Poem == "" {
		return sub, fmt.Errorf("%w: please write a poem and enter your name", ErrInvalidSubmission)
	}
	if sub.Title == "" {
		sub.Title = DefaultTitle
	}
	sub.Author = utils.Truncate(sub.Author, maxFieldLength)
	sub.Title = utils.Truncate(sub.Title, maxFieldLength)
	if s.maxWords > 0 {
		if n := utils.CountWords(sub.Poem); n > s.maxWords {
			return sub, fmt.Errorf("%w: poem has %d words, the limit is %d", ErrInvalidSubmission, n, s.maxWords)
		}
	}
	return sub, nil
}
