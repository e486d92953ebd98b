package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wgomg/versa/internal/poems"
)

const maxTopLimit = 100

// TopTool handles the top_poems MCP tool.
type TopTool struct {
	service      *poems.Service
	defaultLimit int
}

func NewTopTool(service *poems.Service, defaultLimit int) *TopTool {
	return &TopTool{service: service, defaultLimit: defaultLimit}
}

func (t *TopTool) Definition() mcp.Tool {
	return mcp.NewTool("top_poems",
		mcp.WithDescription("List the highest scoring poems on the leaderboard."),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("How many poems to return (default %d, max %d).", t.defaultLimit, maxTopLimit)),
		),
	)
}

func (t *TopTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(req.GetFloat("limit", float64(t.defaultLimit)))
	if limit <= 0 {
		return mcp.NewToolResultError("'limit' must be a positive number"), nil
	}
	limit = min(limit, maxTopLimit)

	top, err := t.service.Top(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError("Unable to load poems: " + err.Error()), nil
	}

	var b strings.Builder
	renderLeaderboard(&b, top)
	return mcp.NewToolResultText(b.String()), nil
}
