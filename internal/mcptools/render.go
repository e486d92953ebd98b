package mcptools

import (
	"fmt"
	"strings"

	"github.com/wgomg/versa/internal/poems"
	"github.com/wgomg/versa/internal/scoring"
)

func renderResult(b *strings.Builder, result *scoring.Result) {
	fmt.Fprintf(b, "**Score: %d/100**\n", result.Score)
	if result.Breakdown == nil {
		return
	}

	bd := result.Breakdown
	b.WriteString("\n| Dimension | Score |\n|---|---|\n")
	fmt.Fprintf(b, "| Word diversity | %d |\n", bd.WordDiversity)
	fmt.Fprintf(b, "| Structural density | %d |\n", bd.StructuralDensity)
	fmt.Fprintf(b, "| Sentiment | %d |\n", bd.Sentiment)
	fmt.Fprintf(b, "| Theme match | %d |\n", bd.ThemeMatch)
	fmt.Fprintf(b, "| Cohesion | %d |\n", bd.Cohesion)
}

func renderLeaderboard(b *strings.Builder, top []poems.Poem) {
	b.WriteString("# Top Poems\n\n")
	if len(top) == 0 {
		b.WriteString("No poems submitted yet! Be the first to add one!\n")
		return
	}

	for i, p := range top {
		fmt.Fprintf(b, "%d. **%s** by %s (Score: %d)\n", i+1, p.Title, p.Author, p.Score)
	}
}
