package mcptools

import (
	"context"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wgomg/versa/internal/poems"
	"github.com/wgomg/versa/internal/scoring"
)

// SubmitTool handles the submit_poem MCP tool.
type SubmitTool struct {
	service *poems.Service
}

func NewSubmitTool(service *poems.Service) *SubmitTool {
	return &SubmitTool{service: service}
}

func (t *SubmitTool) Definition() mcp.Tool {
	return mcp.NewTool("submit_poem",
		mcp.WithDescription(
			"Score a poem and add it to the leaderboard. "+
				"Returns the score breakdown and the saved poem id.",
		),
		mcp.WithString("author",
			mcp.Required(),
			mcp.Description("Name of the poet."),
		),
		mcp.WithString("title",
			mcp.Description("Poem title. Defaults to 'Untitled'."),
		),
		mcp.WithString("poem",
			mcp.Required(),
			mcp.Description("The full poem text."),
		),
	)
}

func (t *SubmitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sub := poems.Submission{
		Author: req.GetString("author", ""),
		Title:  req.GetString("title", ""),
		Poem:   req.GetString("poem", ""),
	}

	submitted, err := t.service.Submit(ctx, sub)
	switch {
	case errors.Is(err, poems.ErrInvalidSubmission):
		return mcp.NewToolResultError(err.Error()), nil
	case errors.Is(err, scoring.ErrProviderUnavailable):
		return mcp.NewToolResultError("Scoring is unavailable right now: " + submitted.Message), nil
	case err != nil && !errors.Is(err, poems.ErrNotSaved):
		return nil, err
	}

	var b strings.Builder
	b.WriteString(submitted.Message)
	b.WriteString("\n\n")
	renderResult(&b, submitted.Result)
	if submitted.ID != "" {
		b.WriteString("\nSaved as `" + submitted.ID + "`.\n")
	}

	if err != nil {
		return mcp.NewToolResultError(b.String()), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}
