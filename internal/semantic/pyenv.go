package semantic

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/wgomg/versa/internal/utils"
)

// pythonEnv is the on-disk layout the worker processes run from:
//
//	<root>/python/embedder.py
//	<root>/python/requirements.txt
//	<root>/venv/
type pythonEnv struct {
	logger *utils.Logger
	root   string
}

func newPythonEnv(logger *utils.Logger, root string) *pythonEnv {
	return &pythonEnv{logger: logger, root: root}
}

func (e *pythonEnv) scriptDir() string    { return filepath.Join(e.root, "python") }
func (e *pythonEnv) script() string       { return filepath.Join(e.scriptDir(), "embedder.py") }
func (e *pythonEnv) requirements() string { return filepath.Join(e.scriptDir(), "requirements.txt") }
func (e *pythonEnv) venv() string         { return filepath.Join(e.root, "venv") }
func (e *pythonEnv) python() string       { return filepath.Join(e.venv(), "bin", "python") }
func (e *pythonEnv) pip() string          { return filepath.Join(e.venv(), "bin", "pip") }

func (e *pythonEnv) prepare(ctx context.Context) error {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"write scripts", e.writeScripts},
		{"find python3", e.findPython},
		{"create venv", e.createVenv},
		{"install requirements", e.installRequirements},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

// writeScripts refreshes the embedded files when they are missing or
// differ from the copy on disk.
func (e *pythonEnv) writeScripts(ctx context.Context) error {
	if err := os.MkdirAll(e.scriptDir(), 0755); err != nil {
		return err
	}

	requirements := embeddedRequirements
	if requirements == "" {
		requirements = defaultRequirements
	}

	files := []struct {
		path    string
		content string
		perm    os.FileMode
	}{
		{e.script(), embeddedPythonScript, 0755},
		{e.requirements(), requirements, 0644},
	}

	for _, f := range files {
		current, err := os.ReadFile(f.path)
		if err == nil && bytes.Equal(current, []byte(f.content)) {
			continue
		}

		e.logger.Info(nil, "Writing %s", f.path)
		if err := os.WriteFile(f.path, []byte(f.content), f.perm); err != nil {
			return err
		}
	}
	return nil
}

func (e *pythonEnv) findPython(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "python3", "--version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("python3 not available: %w", err)
	}

	e.logger.Debug(nil, "Found %s", bytes.TrimSpace(out))
	return nil
}

func (e *pythonEnv) createVenv(ctx context.Context) error {
	if _, err := os.Stat(e.python()); err == nil {
		e.logger.Debug(nil, "Reusing virtual environment at %s", e.venv())
		return nil
	}

	e.logger.Info(nil, "Creating virtual environment at %s", e.venv())
	return run(ctx, "python3", "-m", "venv", e.venv())
}

func (e *pythonEnv) installRequirements(ctx context.Context) error {
	e.logger.Info(nil, "Installing Python requirements from %s (first run downloads the model libraries)", e.requirements())
	return run(ctx, e.pip(), "install", "-q", "-r", e.requirements())
}

func run(ctx context.Context, name string, args ...string) error {
	if output, err := exec.CommandContext(ctx, name, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %s: %w", name, bytes.TrimSpace(output), err)
	}
	return nil
}
