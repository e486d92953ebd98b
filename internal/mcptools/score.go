package mcptools

import (
	"context"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wgomg/versa/internal/poems"
	"github.com/wgomg/versa/internal/scoring"
)

// ScoreTool handles the score_poem MCP tool.
type ScoreTool struct {
	analyzer poems.Analyzer
}

func NewScoreTool(analyzer poems.Analyzer) *ScoreTool {
	return &ScoreTool{analyzer: analyzer}
}

func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("score_poem",
		mcp.WithDescription(
			"Score a poem from 0 to 100 on word diversity, structural density, "+
				"sentiment, theme match and cohesion. Nothing is saved.",
		),
		mcp.WithString("poem",
			mcp.Required(),
			mcp.Description("The full poem text. Line breaks are preserved."),
		),
	)
}

func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	poem := req.GetString("poem", "")

	result, err := t.analyzer.Analyze(ctx, poem)
	switch {
	case errors.Is(err, scoring.ErrEmptyPoem):
		return mcp.NewToolResultError("'poem' is required"), nil
	case errors.Is(err, scoring.ErrProviderUnavailable):
		return mcp.NewToolResultError("Scoring is unavailable right now: " + result.Error), nil
	case err != nil:
		return nil, err
	}

	var b strings.Builder
	renderResult(&b, result)
	return mcp.NewToolResultText(b.String()), nil
}
