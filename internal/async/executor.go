// Package async runs post-commit side effects on a fixed worker pool.
// Tasks carry their own error boundary: a failing or panicking task is
// logged and dropped, it never reaches the submitter.
package async

import (
	"context"
	"sync"
	"time"

	"github.com/ruddypp/Paramata-System/internal/logger"
)

// Task is a named unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Executor is a bounded worker pool. Submit never blocks: when the queue
// is full the task is dropped with a log line, matching the fire-and-forget
// contract of the callers.
type Executor struct {
	tasks   chan Task
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewExecutor(workers, queueSize int) *Executor {
	if workers <= 0 {
		workers = 1
	}
	e := &Executor{
		tasks:   make(chan Task, queueSize),
		timeout: 30 * time.Second,
	}
	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}
	return e
}

func (e *Executor) worker(id int) {
	defer e.wg.Done()
	for task := range e.tasks {
		e.runTask(id, task)
	}
}

func (e *Executor) runTask(worker int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Background task panicked", "task", task.Name, "worker", worker, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if err := task.Run(ctx); err != nil {
		logger.Error("Background task failed", "task", task.Name, "worker", worker, "error", err)
		return
	}
	logger.Debug("Background task completed", "task", task.Name, "worker", worker)
}

// Submit queues the task. Returns false when the executor is closed or the
// queue is full; the caller treats that the same as a failed-and-logged task.
// The mutex is held across the send so Close cannot close the channel
// between the closed check and the send.
func (e *Executor) Submit(name string, run func(ctx context.Context) error) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		logger.Warn("Task submitted after executor close", "task", name)
		return false
	}

	select {
	case e.tasks <- Task{Name: name, Run: run}:
		return true
	default:
		logger.Warn("Task queue full, dropping task", "task", name)
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to drain.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	close(e.tasks)
	e.wg.Wait()
}
