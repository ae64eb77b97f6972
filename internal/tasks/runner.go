// Package tasks runs fire-and-forget background jobs inside the process
// and keeps their terminal results queryable by ID.
package tasks

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// State is the lifecycle state of a task.
type State string

const (
	StateQueued    State = "QUEUED"
	StateStarted   State = "STARTED"
	StateSucceeded State = "SUCCEEDED"
	StateFailed    State = "FAILED"
)

// HandlerFunc executes one task and returns its result payload.
type HandlerFunc func(ctx context.Context) (map[string]any, error)

// Task is the queryable record of one enqueued job.
type Task struct {
	ID     string         `json:"task_id"`
	Name   string         `json:"name"`
	State  State          `json:"state"`
	Result map[string]any `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type job struct {
	id string
	fn HandlerFunc
}

// Runner executes tasks on a single worker goroutine.
type Runner struct {
	mu     sync.RWMutex
	tasks  map[string]*Task
	queue  chan job
	done   chan struct{}
	closed sync.Once
	logger *slog.Logger
}

// NewRunner starts a runner with the given queue depth.
func NewRunner(logger *slog.Logger, depth int) *Runner {
	if depth < 1 {
		depth = 16
	}
	r := &Runner{
		tasks:  make(map[string]*Task),
		queue:  make(chan job, depth),
		done:   make(chan struct{}),
		logger: logger,
	}
	go r.work()
	return r
}

func (r *Runner) work() {
	defer close(r.done)
	for j := range r.queue {
		r.setState(j.id, StateStarted)
		result, err := j.fn(context.Background())
		r.mu.Lock()
		t := r.tasks[j.id]
		if err != nil {
			t.State = StateFailed
			t.Error = err.Error()
		} else {
			t.State = StateSucceeded
			t.Result = result
		}
		r.mu.Unlock()
		if err != nil {
			r.logger.Error("task failed", "task_id", j.id, "error", err)
		}
	}
}

func (r *Runner) setState(id string, state State) {
	r.mu.Lock()
	r.tasks[id].State = state
	r.mu.Unlock()
}

// Enqueue registers a task and schedules it for execution.
func (r *Runner) Enqueue(name string, fn HandlerFunc) *Task {
	t := &Task{
		ID:    "task_" + uuid.New().String()[:8],
		Name:  name,
		State: StateQueued,
	}
	r.mu.Lock()
	r.tasks[t.ID] = t
	r.mu.Unlock()

	r.queue <- job{id: t.ID, fn: fn}
	return r.snapshot(t.ID)
}

// Get returns a copy of the task record, or false if the ID is unknown.
func (r *Runner) Get(taskID string) (*Task, bool) {
	t := r.snapshot(taskID)
	return t, t != nil
}

func (r *Runner) snapshot(taskID string) *Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[taskID]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

// Close stops accepting tasks and waits for the worker to drain the queue.
func (r *Runner) Close() {
	r.closed.Do(func() { close(r.queue) })
	<-r.done
}

// Ping is the trivial health-check task.
func Ping(ctx context.Context) (map[string]any, error) {
	return map[string]any{"pong": true}, nil
}
