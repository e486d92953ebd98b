package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/wgomg/versa/internal/poems"
)

const Version = "0.1.0"

// NewServer registers the poem tools on a fresh MCP server.
func NewServer(analyzer poems.Analyzer, service *poems.Service, defaultLimit int) *server.MCPServer {
	s := server.NewMCPServer(
		"versa",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(
			"Versa scores poems from 0 to 100. Use score_poem to rate a poem without saving it, "+
				"submit_poem to rate and save it, and top_poems to read the leaderboard.",
		),
	)

	scoreTool := NewScoreTool(analyzer)
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	submitTool := NewSubmitTool(service)
	s.AddTool(submitTool.Definition(), submitTool.Handle)

	topTool := NewTopTool(service, defaultLimit)
	s.AddTool(topTool.Definition(), topTool.Handle)

	return s
}
