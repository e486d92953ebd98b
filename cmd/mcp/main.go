package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/wgomg/versa/internal/app"
	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/mcptools"
	"github.com/wgomg/versa/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "versa-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// stdout carries the MCP protocol
	logger := utils.NewWriterLogger(cfg.App.LogLevel, os.Stderr)

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	s := mcptools.NewServer(application.Scorer, application.Poems, cfg.Store.LeaderboardLimit)
	return server.ServeStdio(s)
}
