package semantic

import (
	"fmt"
)

type Embedding = []float64

type DimensionError struct {
	Index    int
	Got      int
	Expected int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding %d has dimension %d, expected %d", e.Index, e.Got, e.Expected)
}

func checkDimensions(vectors []Embedding, want int) error {
	for i, v := range vectors {
		if len(v) != want {
			return &DimensionError{Index: i, Got: len(v), Expected: want}
		}
	}
	return nil
}
