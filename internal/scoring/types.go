// Package scoring turns free-form poem text into a 0-100 score with a
// per-component breakdown.
//
// Five analyzers each produce a sub-score in [0,1]:
//
//   - word diversity: unique/total meaningful (non-stopword) tokens
//   - structural density: sentence, noun and verb density from a parser
//   - sentiment: closeness to "happy" versus "sad" in embedding space
//   - theme match: best cosine match against ten poetic themes
//   - cohesion: mean similarity between adjacent sentences
//
// Analyzer failures degrade the affected sub-score to its default and never
// abort scoring. Only empty input and an embedding provider that cannot be
// initialized end a call early.
package scoring

import (
	"context"
	"errors"
)

const (
	WeightWordDiversity     = 20.0
	WeightStructuralDensity = 10.0
	WeightSentiment         = 10.0
	WeightThemeMatch        = 30.0
	WeightCohesion          = 30.0
)

const (
	// DegradedDefault is the sub-score used when an analyzer cannot run.
	DegradedDefault = 0.0
	// NeutralCohesion is used for single-sentence text: there is no
	// transition between sentences to judge.
	NeutralCohesion = 0.5

	MaxScore = 100
)

var (
	SentimentPositiveAnchor = "happy"
	SentimentNegativeAnchor = "sad"

	ThemeAnchors = []string{
		"love", "nature", "sadness", "hope", "death",
		"friendship", "beauty", "loss", "time", "journey",
	}
)

var (
	ErrEmptyPoem           = errors.New("empty poem text")
	ErrProviderUnavailable = errors.New("embedding model unavailable")
)

// Embedder produces one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Parser exposes the syntactic facts the structural and cohesion analyzers need.
type Parser interface {
	Parse(text string) (*ParseResult, error)
}

type ParseResult struct {
	Sentences []string
	Nouns     int
	Verbs     int
	Words     int
}

type SubScores struct {
	WordDiversity     float64
	StructuralDensity float64
	Sentiment         float64
	ThemeMatch        float64
	Cohesion          float64
}

// Breakdown holds each sub-score as a rounded percentage. The values are
// rounded independently and need not add up to Result.Score.
type Breakdown struct {
	WordDiversity     int `json:"wordDiversity" jsonschema:"minimum=0,maximum=100"`
	StructuralDensity int `json:"structuralDensity" jsonschema:"minimum=0,maximum=100"`
	Sentiment         int `json:"sentiment" jsonschema:"minimum=0,maximum=100"`
	ThemeMatch        int `json:"themeMatch" jsonschema:"minimum=0,maximum=100"`
	Cohesion          int `json:"cohesion" jsonschema:"minimum=0,maximum=100"`
}

type Result struct {
	Score     int        `json:"score" jsonschema:"minimum=0,maximum=100"`
	Breakdown *Breakdown `json:"breakdown,omitempty"`
	Error     string     `json:"error,omitempty"`

	SubScores SubScores `json:"-"`
}
