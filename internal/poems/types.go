package poems

import (
	"context"
	"fmt"
)

const DefaultTitle = "Untitled"

// Poem is the persisted record. ID is assigned by the store.
type Poem struct {
	ID     string `json:"id,omitempty"`
	Author string `json:"author"`
	Title  string `json:"title"`
	Poem   string `json:"poem"`
	Score  int    `json:"score"`
}

type Store interface {
	Create(ctx context.Context, poem *Poem) (string, error)
	// Top returns at most limit poems, highest score first.
	Top(ctx context.Context, limit int) ([]Poem, error)
}

type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}
