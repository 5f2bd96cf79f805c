package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vitaehq/vitae-api/internal/domain"
)

// RunnerConfig holds configuration for the task runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue.
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 4,
		QueueSize:   100,
	}
}

// Runner manages background task processing on a pool of workers.
//
// The Runner owns the task lifecycle: it transitions the status record
// to processing before Execute, to completed or failed after, and then
// emits exactly one terminal notification. Dispatched tasks run to
// completion or failure; there is no cancellation, no execution timeout
// and no automatic retry — resubmission is the only recovery path.
type Runner struct {
	statuses   StatusTransitioner
	notifier   Notifier
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(statuses StatusTransitioner, notifier Notifier, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultRunnerConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultRunnerConfig().QueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		statuses:   statuses,
		notifier:   notifier,
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
	}
}

// Submit adds a new task to the queue. The task's status record must
// already exist in pending state (created by the dispatcher inside the
// submitting request).
func (r *Runner) Submit(ctx context.Context, task Task) error {
	select {
	case <-r.ctx.Done():
		return fmt.Errorf("task runner is stopped")
	default:
	}

	select {
	case r.taskChan <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full, try again later")
	}
}

// Start initializes the worker pool and begins processing tasks.
func (r *Runner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// Stop gracefully shuts down the task runner. In-flight tasks run to
// completion; queued tasks that have not started are abandoned in
// pending state. The queue channel is left open so a late Submit fails
// cleanly instead of panicking.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
}

// worker processes tasks from the queue.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case task := <-r.taskChan:
			r.processTask(task, id)
		}
	}
}

// processTask handles execution of a single task. Every error is caught
// here, recorded as the terminal status's error message and never
// re-thrown: the submitting caller already received its handles and
// observes failure only via polling or subscription.
func (r *Runner) processTask(task Task, workerID int) {
	ctx := context.Background()
	logger := r.logger.With(
		"status_id", task.ID(),
		"task_type", task.Type(),
		"subject_id", task.SubjectID(),
		"worker_id", workerID,
	)

	// If the pending→processing step fails the status row is still
	// pending, so a terminal transition would be rejected anyway and a
	// notification would contradict the tracker. Leave the row pending;
	// resubmission is the recovery path.
	if _, err := r.statuses.Transition(ctx, task.ID(), domain.StatusProcessing, ""); err != nil {
		logger.Error("failed to transition status to processing, leaving task pending", "error", err)
		return
	}

	logger.Info("processing task")

	err := func() (execErr error) {
		defer func() {
			if p := recover(); p != nil {
				execErr = fmt.Errorf("task panicked: %v", p)
			}
		}()
		return task.Execute(ctx)
	}()

	r.finish(ctx, task, logger, err)
}

// finish records the terminal status and emits the one-shot notification.
func (r *Runner) finish(ctx context.Context, task Task, logger *slog.Logger, execErr error) {
	terminal := domain.StatusCompleted
	errorMessage := ""
	if execErr != nil {
		terminal = domain.StatusFailed
		errorMessage = execErr.Error()
		logger.Error("task execution failed", "error", execErr)
	} else {
		logger.Info("task completed successfully")
	}

	if _, err := r.statuses.Transition(ctx, task.ID(), terminal, errorMessage); err != nil {
		logger.Error("failed to record terminal task status",
			"terminal_status", terminal,
			"error", err)
	}

	r.notifier.Notify(task.SubjectID(), terminal, errorMessage)
}
