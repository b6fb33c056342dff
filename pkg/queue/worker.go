package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WorkerRepository defines the storage operations a worker needs
type WorkerRepository interface {
	// ClaimTask marks the next ready task as processing and returns it
	ClaimTask(ctx context.Context, queues []string) (Task, error)
	CompleteTask(ctx context.Context, id uuid.UUID) error
	FailTask(ctx context.Context, id uuid.UUID, reason string) error
}

// Worker claims tasks and runs the handler registered for their name.
type Worker struct {
	repo         WorkerRepository
	mu           sync.RWMutex
	handlers     map[string]Handler
	queues       []string
	pullInterval time.Duration
	taskTimeout  time.Duration
	logger       *slog.Logger
}

// NewWorker creates a new task worker
func NewWorker(repo WorkerRepository, opts ...WorkerOption) (*Worker, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	options := &workerOptions{
		queues:       []string{DefaultQueueName},
		pullInterval: time.Second,
		taskTimeout:  time.Minute,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Worker{
		repo:         repo,
		handlers:     make(map[string]Handler),
		queues:       options.queues,
		pullInterval: options.pullInterval,
		taskTimeout:  options.taskTimeout,
		logger:       options.logger,
	}, nil
}

// RegisterHandlers registers task handlers by name. Later registrations
// replace earlier ones with the same name.
func (w *Worker) RegisterHandlers(handlers ...Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, h := range handlers {
		if h != nil {
			w.handlers[h.Name()] = h
		}
	}
}

// Run returns a function suitable for errgroup that processes tasks until
// ctx is canceled.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		w.mu.RLock()
		n := len(w.handlers)
		w.mu.RUnlock()
		if n == 0 {
			return ErrNoHandlers
		}

		w.logger.Info("worker started", slog.Any("queues", w.queues))
		ticker := time.NewTicker(w.pullInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				w.logger.Info("worker stopped")
				return nil
			case <-ticker.C:
				w.drain(ctx)
			}
		}
	}
}

// drain processes tasks until none is ready.
func (w *Worker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		ok, err := w.ProcessNext(ctx)
		if err != nil && !errors.Is(err, ErrHandlerNotFound) {
			w.logger.Error("failed to process task", slog.String("error", err.Error()))
		}
		if !ok {
			return
		}
	}
}

// ProcessNext claims and runs one task. It reports whether a task was claimed.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	task, err := w.repo.ClaimTask(ctx, w.queues)
	if err != nil {
		if errors.Is(err, ErrNoTaskToClaim) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim task: %w", err)
	}
	return true, w.process(ctx, task)
}

func (w *Worker) process(ctx context.Context, task Task) error {
	log := w.logger.With(
		slog.String("task_id", task.ID.String()),
		slog.String("task_name", task.Name),
		slog.Int("attempt", task.Attempts),
	)

	w.mu.RLock()
	h, ok := w.handlers[task.Name]
	w.mu.RUnlock()
	if !ok {
		log.Error("no handler registered for task")
		if err := w.repo.FailTask(ctx, task.ID, ErrHandlerNotFound.Error()); err != nil {
			return err
		}
		return ErrHandlerNotFound
	}

	start := time.Now()
	runErr := w.run(ctx, h, task)
	if runErr != nil {
		log.Warn("task failed", slog.Duration("duration", time.Since(start)), slog.String("error", runErr.Error()))
		return w.repo.FailTask(ctx, task.ID, runErr.Error())
	}

	log.Debug("task completed", slog.Duration("duration", time.Since(start)))
	return w.repo.CompleteTask(ctx, task.ID)
}

func (w *Worker) run(ctx context.Context, h Handler, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in handler: %v", r)
		}
	}()

	// handlers get their own deadline so shutdown lets a running task finish
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.taskTimeout)
	defer cancel()
	return h.Handle(tctx, task.Payload)
}
