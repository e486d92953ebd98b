package api

import (
	"github.com/wgomg/versa/internal/poems"
)

type ScoreRequest struct {
	Poem string `json:"poem" jsonschema:"required,description=Poem text to score"`
}

type TopResponse struct {
	Poems []poems.Poem `json:"poems"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	EmbedderReady bool   `json:"embedderReady"`
}

type SchemaResponse struct {
	ScoreRequest map[string]any `json:"scoreRequest"`
	Submission   map[string]any `json:"submission"`
	ScoreResult  map[string]any `json:"scoreResult"`
}
