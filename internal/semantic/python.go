package semantic

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/utils"
)

const maxResponseBytes = 64 * 1024 * 1024

// ErrPoolStopped is returned once no worker process is left to serve
// requests.
var ErrPoolStopped = errors.New("python embedder has no running workers")

type Task struct {
	Ctx    context.Context
	Texts  []string
	Result chan<- TaskResult
}

type TaskResult struct {
	Embeddings []Embedding
	Err        error
}

// PythonWorkerPool embeds text with sentence-transformers running in a
// pool of long-lived Python processes.
type PythonWorkerPool struct {
	logger       *utils.Logger
	env          *pythonEnv
	cfg          *config.SemanticConfig
	command      func() *exec.Cmd
	taskQueue    chan Task
	wg           sync.WaitGroup
	embeddingDim int

	live atomic.Int32
	dead chan struct{}

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

type PythonWorker struct {
	id      int
	dim     int
	process *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
	scanner *bufio.Scanner
	pool    *PythonWorkerPool
}

type PythonRequest struct {
	Texts []string `json:"texts"`
}

type PythonResponse struct {
	Embeddings []Embedding          `json:"embeddings"`
	Error      string               `json:"error,omitempty"`
	DebugInfo  *PythonResponseDebug `json:"debug_info"`
}

type PythonResponseDebug struct {
	ProcessingTimeMS int `json:"processing_time_ms"`
}

// pythonError is reported by the script itself; the worker stays usable.
type pythonError struct {
	msg string
}

func (e *pythonError) Error() string {
	return "python error: " + e.msg
}

func NewPythonEmbedder(logger *utils.Logger, cfg *config.SemanticConfig) *PythonWorkerPool {
	env := newPythonEnv(logger, cfg.Python.ConfigDir)

	return &PythonWorkerPool{
		logger: logger,
		env:    env,
		cfg:    cfg,
		command: func() *exec.Cmd {
			return exec.Command(env.python(), env.script())
		},
		taskQueue: make(chan Task, 100),
		dead:      make(chan struct{}),
	}
}

func (p *PythonWorkerPool) Initialize(ctx context.Context) error {
	p.logger.Info(nil, "Initializing Python embedder with %d workers", p.cfg.WorkerCount)

	if err := p.env.prepare(ctx); err != nil {
		return fmt.Errorf("failed to setup environment: %w", err)
	}

	return p.startWorkers()
}

func (p *PythonWorkerPool) startWorkers() error {
	workers := make([]*PythonWorker, 0, p.cfg.WorkerCount)
	for i := 0; i < p.cfg.WorkerCount; i++ {
		worker, err := p.startWorker(i)
		if err != nil {
			for _, w := range workers {
				w.close(0)
			}
			return fmt.Errorf("failed to start worker %d: %w", i, err)
		}
		workers = append(workers, worker)
	}

	p.embeddingDim = workers[0].dim
	p.live.Store(int32(len(workers)))
	for _, w := range workers {
		p.wg.Add(1)
		go p.runWorker(w)
	}

	p.logger.Info(nil, "Python embedder initialized successfully (embedding_dim=%d)", p.embeddingDim)
	return nil
}

func (p *PythonWorkerPool) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	result := make(chan TaskResult, 1)
	task := Task{
		Ctx:    ctx,
		Texts:  texts,
		Result: result,
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, ErrPoolStopped
	}
	select {
	case p.taskQueue <- task:
		p.mu.RUnlock()
	case <-p.dead:
		p.mu.RUnlock()
		return nil, ErrPoolStopped
	case <-ctx.Done():
		p.mu.RUnlock()
		return nil, ctx.Err()
	}

	select {
	case res := <-result:
		return res.Embeddings, res.Err
	case <-p.dead:
		select {
		case res := <-result:
			return res.Embeddings, res.Err
		default:
			return nil, ErrPoolStopped
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// runWorker serves tasks until the queue closes. A worker whose process
// breaks is replaced and the task is tried once more on the replacement;
// if no replacement starts the worker is gone for good.
func (p *PythonWorkerPool) runWorker(worker *PythonWorker) {
	defer p.wg.Done()
	defer func() {
		if p.live.Add(-1) == 0 {
			close(p.dead)
		}
	}()

	grace := time.Duration(p.cfg.Python.ProcessShutdownTimeout) * time.Second

	for task := range p.taskQueue {
		reqID := utils.RequestID(task.Ctx)

		var embeddings []Embedding
		var err error
		for attempt := 0; ; attempt++ {
			if err = task.Ctx.Err(); err != nil {
				break
			}

			embeddings, err = worker.processTask(task)
			if err == nil || workerUsable(err) {
				break
			}

			p.logger.Error(reqID, "Python worker %d failed: %v", worker.id, err)
			worker.close(grace)

			next, startErr := p.startWorker(worker.id)
			if startErr != nil {
				p.logger.Error(reqID, "Python worker %d could not be restarted: %v", worker.id, startErr)
				task.Result <- TaskResult{Err: err}
				return
			}
			p.logger.Info(reqID, "Python worker %d restarted", worker.id)
			worker = next

			if attempt >= 1 {
				break
			}
		}

		task.Result <- TaskResult{Embeddings: embeddings, Err: err}
	}

	worker.close(grace)
}

// workerUsable reports whether the process is still in a known state
// after err.
func workerUsable(err error) bool {
	var pyErr *pythonError
	var dimErr *DimensionError
	return errors.As(err, &pyErr) || errors.As(err, &dimErr)
}

func (p *PythonWorkerPool) startWorker(id int) (*PythonWorker, error) {
	cmd := p.command()
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		return nil, fmt.Errorf("start process: %w", err)
	}

	worker := &PythonWorker{
		id:      id,
		process: cmd,
		stdin:   stdin,
		stdout:  stdout,
		scanner: bufio.NewScanner(stdout),
		pool:    p,
	}
	worker.scanner.Buffer(make([]byte, 0, 64*1024), maxResponseBytes)

	configJSON, err := json.Marshal(map[string]any{
		"model_name":           p.cfg.Model,
		"normalize_embeddings": false,
	})
	if err != nil {
		worker.close(0)
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	configJSON = append(configJSON, '\n')
	if _, err := stdin.Write(configJSON); err != nil {
		worker.close(0)
		return nil, fmt.Errorf("send config: %w", err)
	}

	if !worker.scanner.Scan() {
		worker.close(0)
		return nil, fmt.Errorf("failed to read READY message")
	}

	var readyMsg struct {
		Status       string `json:"status"`
		EmbeddingDim int    `json:"embedding_dim"`
	}
	if err := json.Unmarshal(worker.scanner.Bytes(), &readyMsg); err != nil {
		worker.close(0)
		return nil, fmt.Errorf("failed to parse ready message: %w", err)
	}

	if readyMsg.Status != "ready" {
		worker.close(0)
		return nil, fmt.Errorf("unexpected startup status: %s", readyMsg.Status)
	}

	if p.embeddingDim != 0 && readyMsg.EmbeddingDim != p.embeddingDim {
		worker.close(0)
		return nil, fmt.Errorf("worker reports embedding_dim %d, pool uses %d", readyMsg.EmbeddingDim, p.embeddingDim)
	}

	worker.dim = readyMsg.EmbeddingDim
	p.logger.Debug(nil, "Python worker %d ready (embedding_dim=%d)", id, readyMsg.EmbeddingDim)

	return worker, nil
}

func (w *PythonWorker) processTask(task Task) ([]Embedding, error) {
	reqJSON, err := json.Marshal(PythonRequest{Texts: task.Texts})
	if err != nil {
		return nil, &pythonError{msg: fmt.Sprintf("marshal request: %v", err)}
	}

	// A request that outlives its caller kills the process; runWorker then
	// replaces it.
	stop := context.AfterFunc(task.Ctx, func() {
		w.process.Process.Kill()
	})
	defer stop()

	reqJSON = append(reqJSON, '\n')
	if _, err := w.stdin.Write(reqJSON); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	if !w.scanner.Scan() {
		if err := w.scanner.Err(); err != nil {
			return nil, fmt.Errorf("read stdout: %w", err)
		}
		return nil, fmt.Errorf("stdout closed")
	}

	var resp PythonResponse
	if err := json.Unmarshal(w.scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, &pythonError{msg: resp.Error}
	}

	if resp.DebugInfo != nil {
		w.pool.logger.Debug(utils.RequestID(task.Ctx),
			"Python worker %d embedded %d texts in %dms",
			w.id, len(task.Texts), resp.DebugInfo.ProcessingTimeMS,
		)
	}

	if len(resp.Embeddings) != len(task.Texts) {
		return nil, &pythonError{
			msg: fmt.Sprintf("got %d embeddings for %d texts", len(resp.Embeddings), len(task.Texts)),
		}
	}
	if err := checkDimensions(resp.Embeddings, w.pool.embeddingDim); err != nil {
		return nil, err
	}

	return resp.Embeddings, nil
}

// close ends stdin so the script exits on its own, killing it if it is
// still running after grace.
func (w *PythonWorker) close(grace time.Duration) {
	if w.stdin != nil {
		w.stdin.Close()
	}

	if w.process != nil && w.process.Process != nil {
		done := make(chan struct{})
		go func() {
			w.process.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(grace):
			w.process.Process.Kill()
			<-done
		}
	}
}

func (p *PythonWorkerPool) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.taskQueue)
		p.mu.Unlock()
		p.wg.Wait()
	})
	return nil
}

// HealthCheck runs one small request through the pool.
func (p *PythonWorkerPool) HealthCheck(ctx context.Context) error {
	embeddings, err := p.Embed(ctx, []string{"health check"})
	if err != nil {
		return fmt.Errorf("health check: worker error: %w", err)
	}
	if len(embeddings) != 1 || len(embeddings[0]) == 0 {
		return fmt.Errorf("health check: empty embedding")
	}
	return nil
}
