package action

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keyfocus/internal/logging"
)

// DefaultQueueSize is the default number of pending jobs.
const DefaultQueueSize = 64

// Result describes a finished job.
type Result struct {
	JobID    string
	Action   string
	Err      error
	Duration time.Duration
}

// Worker runs actions on a single goroutine in submission order so slow
// side effects never block the caller. Worker implements Executor: Execute
// queues the request and returns immediately.
type Worker struct {
	exec     Executor
	logger   *logging.Logger
	onResult func(Result)

	mu       sync.RWMutex
	started  bool
	stopped  bool
	stopOnce sync.Once
	jobs     chan job
	quit     chan struct{}
	wg       sync.WaitGroup

	// inflight counts accepted jobs that have not finished.
	inflight sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

type job struct {
	id  string
	req Request
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithQueueSize sets the number of jobs that may wait to run.
func WithQueueSize(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.jobs = make(chan job, n)
		}
	}
}

// WithLogger sets the worker logger.
func WithLogger(l *logging.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithResultCallback sets a function called after every job.
func WithResultCallback(fn func(Result)) WorkerOption {
	return func(w *Worker) {
		w.onResult = fn
	}
}

// NewWorker creates a worker that runs requests with exec.
func NewWorker(exec Executor, opts ...WorkerOption) *Worker {
	w := &Worker{
		exec:   exec,
		logger: logging.Discard(),
		jobs:   make(chan job, DefaultQueueSize),
		quit:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("action")
	w.ctx, w.cancel = context.WithCancel(context.Background())
	return w
}

// Start starts the worker goroutine. Calling Start more than once is a no-op.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started || w.stopped {
		return
	}
	w.started = true

	w.wg.Add(1)
	go w.loop()
}

// Stop stops accepting jobs, cancels the running job's context and waits
// for the worker goroutine to exit. Queued jobs are dropped.
func (w *Worker) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	w.shutdown()
}

func (w *Worker) shutdown() {
	w.stopOnce.Do(func() {
		close(w.quit)
		w.cancel()
	})
	w.wg.Wait()
}

// Drain stops accepting jobs and waits for queued jobs to finish, or for
// ctx to be done, before stopping the worker.
func (w *Worker) Drain(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	w.mu.Unlock()

	idle := make(chan struct{})
	go func() {
		w.inflight.Wait()
		close(idle)
	}()

	var err error
	select {
	case <-idle:
	case <-ctx.Done():
		err = ctx.Err()
	}

	w.shutdown()
	return err
}

// Submit queues a request and returns its job ID.
func (w *Worker) Submit(req Request) (string, error) {
	if req.Action == "" {
		return "", ErrEmptyAction
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return "", ErrWorkerStopped
	}

	j := job{id: uuid.New().String(), req: req}
	w.inflight.Add(1)
	select {
	case w.jobs <- j:
		return j.id, nil
	default:
		w.inflight.Done()
		return "", ErrQueueFull
	}
}

// Execute queues the request. The context is not used; jobs run under the
// worker's own context, which is cancelled by Stop.
func (w *Worker) Execute(_ context.Context, req Request) error {
	id, err := w.Submit(req)
	if err != nil {
		return &ExecError{JobID: id, Action: req.Action, Err: err}
	}
	w.logger.Debug("queued %q as job %s", req.Action, id)
	return nil
}

// Pending returns the number of queued jobs.
func (w *Worker) Pending() int {
	return len(w.jobs)
}

func (w *Worker) loop() {
	defer w.wg.Done()

	for {
		select {
		case j := <-w.jobs:
			w.run(j)
			w.inflight.Done()
		case <-w.quit:
			return
		}
	}
}

// run executes one job with panic recovery.
func (w *Worker) run(j job) {
	start := time.Now()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.New("panic: " + toString(r))
			}
		}()
		return w.exec.Execute(w.ctx, j.req)
	}()

	res := Result{
		JobID:    j.id,
		Action:   j.req.Action,
		Duration: time.Since(start),
	}
	if err != nil {
		res.Err = &ExecError{JobID: j.id, Action: j.req.Action, Err: err}
		w.logger.WithField("job", j.id).Error("%v", err)
	} else {
		w.logger.WithField("job", j.id).Debug("%q done in %v", j.req.Action, res.Duration)
	}

	if w.onResult != nil {
		w.onResult(res)
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case error:
		return t.Error()
	default:
		return "unknown panic value"
	}
}
