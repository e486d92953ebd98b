package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/wgomg/versa/internal/app"
	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/ingest"
	"github.com/wgomg/versa/internal/scoring"
	"github.com/wgomg/versa/internal/utils"
)

func main() {
	file := flag.String("file", "", "Path to a .txt, .md or .pdf file containing the poem")
	text := flag.String("text", "", "Poem text (use - to read from stdin)")
	asJSON := flag.Bool("json", false, "Print the raw result as JSON")
	flag.Parse()

	if err := run(*file, *text, *asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "score: %v\n", err)
		os.Exit(1)
	}
}

func run(file, text string, asJSON bool) error {
	poem, err := readInput(file, text)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := utils.NewWriterLogger(cfg.App.LogLevel, os.Stderr)
	scorer, embedder := app.NewScorer(cfg, logger)
	defer func() {
		if e, ok := embedder.Loaded(); ok {
			if closer, ok := e.(io.Closer); ok {
				closer.Close()
			}
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := scorer.Analyze(ctx, poem)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(result); encErr != nil {
			return encErr
		}
		return err
	}
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func readInput(file, text string) (string, error) {
	switch {
	case file != "" && text != "":
		return "", errors.New("use either -file or -text, not both")
	case file != "":
		return ingest.ReadPoem(file)
	case text == "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	case text != "":
		return text, nil
	default:
		return "", errors.New("a poem is required: pass -file or -text")
	}
}

func printResult(result *scoring.Result) {
	fmt.Printf("Score: %d/100\n", result.Score)
	if result.Breakdown == nil {
		return
	}

	bd := result.Breakdown
	rows := []struct {
		name  string
		value int
	}{
		{"Word diversity", bd.WordDiversity},
		{"Structural density", bd.StructuralDensity},
		{"Sentiment", bd.Sentiment},
		{"Theme match", bd.ThemeMatch},
		{"Cohesion", bd.Cohesion},
	}
	for _, r := range rows {
		fmt.Printf("  %-20s %3d %s\n", r.name, r.value, strings.Repeat("#", r.value/5))
	}
}
