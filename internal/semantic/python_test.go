package semantic

import (
	"context"
	"errors"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/utils"
)

const (
	readyLine = `echo '{"status":"ready","embedding_dim":2}'`

	// answers one request, then exits
	oneShotWorker = `read cfg; ` + readyLine + `; read req; echo '{"embeddings":[[1,0]]}'`

	// never answers a request
	stalledWorker = `read cfg; ` + readyLine + `; read req || exit 0; exec sleep 30`

	brokenWorker = `exit 1`
)

// newScriptPool starts a pool whose workers run the given shell scripts in
// order, repeating the last one for every later start.
func newScriptPool(t *testing.T, workers int, scripts ...string) *PythonWorkerPool {
	t.Helper()

	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	cfg := &config.SemanticConfig{
		Provider:    config.ProviderPython,
		Model:       "all-MiniLM-L6-v2",
		WorkerCount: workers,
		TimeoutMs:   300,
		Python:      config.PythonConfig{ConfigDir: t.TempDir()},
	}
	pool := NewPythonEmbedder(utils.NewDiscardLogger(), cfg)

	var starts atomic.Int32
	pool.command = func() *exec.Cmd {
		i := int(starts.Add(1)) - 1
		if i >= len(scripts) {
			i = len(scripts) - 1
		}
		return exec.Command(sh, "-c", scripts[i])
	}

	if err := pool.startWorkers(); err != nil {
		t.Fatalf("startWorkers: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

func TestPythonPoolRestartsExitedWorker(t *testing.T) {
	pool := newScriptPool(t, 1, oneShotWorker)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		vectors, err := pool.Embed(ctx, []string{"the sea"})
		cancel()
		if err != nil {
			t.Fatalf("Embed #%d: %v", i+1, err)
		}
		if len(vectors) != 1 || vectors[0][0] != 1 {
			t.Fatalf("Embed #%d = %v", i+1, vectors)
		}
	}
}

func TestPythonPoolFailsFastWithoutWorkers(t *testing.T) {
	pool := newScriptPool(t, 1, oneShotWorker, brokenWorker)

	if _, err := pool.Embed(context.Background(), []string{"first"}); err != nil {
		t.Fatalf("first Embed: %v", err)
	}
	if _, err := pool.Embed(context.Background(), []string{"second"}); err == nil {
		t.Fatal("expected error once the worker cannot be restarted")
	}

	done := make(chan error, 1)
	go func() {
		_, err := pool.Embed(context.Background(), []string{"third"})
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrPoolStopped) {
			t.Errorf("error = %v, want ErrPoolStopped", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Embed blocked on a pool with no workers")
	}
}

func TestPythonPoolHealthCheckTimesOut(t *testing.T) {
	pool := newScriptPool(t, 1, stalledWorker)

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout(pool.cfg))
	defer cancel()

	start := time.Now()
	err := pool.HealthCheck(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("health check took %v", elapsed)
	}
}

func TestPythonPoolRejectsAfterClose(t *testing.T) {
	pool := newScriptPool(t, 2, oneShotWorker)
	pool.Close()

	if _, err := pool.Embed(context.Background(), []string{"late"}); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("error = %v, want ErrPoolStopped", err)
	}
}
