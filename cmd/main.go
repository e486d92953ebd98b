package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wgomg/versa/internal/api"
	"github.com/wgomg/versa/internal/app"
	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := utils.NewLogger("error", false)
		log.Fatal("Failed to load configuration:", err)
	}
	if err := cfg.Validate(); err != nil {
		log := utils.NewLogger("error", cfg.App.RawBodyLog)
		log.Fatal("Invalid configuration:", err)
	}

	logger := utils.NewLogger(cfg.App.LogLevel, cfg.App.RawBodyLog)
	logger.Info(nil, "Starting Poem Scoring Service")
	logger.Info(nil, "Environment: %s", cfg.App.Env)
	logger.Info(nil, "Log level: %s", cfg.App.LogLevel)
	logger.Info(nil, "Embedding provider: %s (%s)", cfg.Semantic.Provider, cfg.Semantic.Model)
	logger.Info(nil, "Syntactic parser: %s", cfg.Syntax.Parser)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error(nil, "Failed to create poem store: %v", err)
		logger.Fatal("Missing required configuration")
	}
	defer application.Close()

	handler := api.NewHandler(logger, application.Scorer, application.Poems, cfg)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.App.ServerPort,
		Handler:           api.WithRequestID(logger, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info(nil, "Starting server on port %s", cfg.App.ServerPort)
		logger.Info(nil, "Endpoints:")
		logger.Info(nil, "  GET  /health")
		logger.Info(nil, "  POST /score")
		logger.Info(nil, "  POST /poems")
		logger.Info(nil, "  GET  /poems/top")
		logger.Info(nil, "  GET  /schema")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(nil, "Server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info(nil, "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(nil, "Graceful shutdown failed: %v", err)
	}
}
