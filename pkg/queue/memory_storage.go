package queue

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage implements EnqueuerRepository and WorkerRepository in process
// memory. Tasks are claimed oldest scheduled first.
type MemoryStorage struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*Task
	order []uuid.UUID
	// backoff is the delay per attempt before a failed task is retried
	backoff time.Duration
}

// NewMemoryStorage creates an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tasks:   make(map[uuid.UUID]*Task),
		backoff: 5 * time.Second,
	}
}

// CreateTask implements EnqueuerRepository
func (ms *MemoryStorage) CreateTask(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.tasks[task.ID]; exists {
		return fmt.Errorf("task with ID %s already exists", task.ID)
	}
	task.Payload = slices.Clone(task.Payload)
	ms.tasks[task.ID] = &task
	ms.order = append(ms.order, task.ID)
	return nil
}

// ClaimTask implements WorkerRepository
func (ms *MemoryStorage) ClaimTask(ctx context.Context, queues []string) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	var best *Task
	for _, id := range ms.order {
		t := ms.tasks[id]
		if t.Status != TaskStatusPending || t.ScheduledAt.After(now) || !slices.Contains(queues, t.Queue) {
			continue
		}
		if best == nil || t.ScheduledAt.Before(best.ScheduledAt) {
			best = t
		}
	}
	if best == nil {
		return Task{}, ErrNoTaskToClaim
	}

	best.Status = TaskStatusProcessing
	best.Attempts++
	return *best, nil
}

// CompleteTask implements WorkerRepository
func (ms *MemoryStorage) CompleteTask(ctx context.Context, id uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	t.Status = TaskStatusCompleted
	t.Error = ""
	return nil
}

// FailTask implements WorkerRepository. The task goes back to pending with a
// linear backoff until it runs out of attempts.
func (ms *MemoryStorage) FailTask(ctx context.Context, id uuid.UUID, reason string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	t.Error = reason
	if t.Attempts >= t.MaxAttempts {
		t.Status = TaskStatusFailed
		return nil
	}
	t.Status = TaskStatusPending
	t.ScheduledAt = time.Now().Add(time.Duration(t.Attempts) * ms.backoff)
	return nil
}

// Task returns a copy of the task with id.
func (ms *MemoryStorage) Task(id uuid.UUID) (Task, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Tasks returns copies of every task in creation order.
func (ms *MemoryStorage) Tasks() []Task {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out := make([]Task, 0, len(ms.order))
	for _, id := range ms.order {
		out = append(out, *ms.tasks[id])
	}
	return out
}
