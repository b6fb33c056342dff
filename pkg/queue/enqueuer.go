package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnqueuerRepository persists new tasks
type EnqueuerRepository interface {
	CreateTask(ctx context.Context, task Task) error
}

// Enqueuer turns events into persisted tasks. It never waits for the task to run.
type Enqueuer struct {
	repo               EnqueuerRepository
	defaultQueue       string
	defaultMaxAttempts int
}

// NewEnqueuer creates a new Enqueuer
func NewEnqueuer(repo EnqueuerRepository, opts ...EnqueuerOption) (*Enqueuer, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	options := &enqueuerOptions{
		defaultQueue:       DefaultQueueName,
		defaultMaxAttempts: 3,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Enqueuer{
		repo:               repo,
		defaultQueue:       options.defaultQueue,
		defaultMaxAttempts: options.defaultMaxAttempts,
	}, nil
}

// Enqueue stores event as a pending task and returns its ticket.
func (e *Enqueuer) Enqueue(ctx context.Context, event any, opts ...EnqueueOption) (Ticket, error) {
	if event == nil {
		return Ticket{}, ErrPayloadNil
	}

	options := &enqueueOptions{
		queue:       e.defaultQueue,
		maxAttempts: e.defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(options)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return Ticket{}, fmt.Errorf("failed to marshal payload of type %T: %w", event, err)
	}

	name := options.name
	if name == "" {
		name = qualifiedStructName(event)
	}

	now := time.Now()
	task := Task{
		ID:          uuid.New(),
		Queue:       options.queue,
		Name:        name,
		Payload:     payload,
		Status:      TaskStatusPending,
		MaxAttempts: options.maxAttempts,
		ScheduledAt: now.Add(options.delay),
		CreatedAt:   now,
	}

	if err := e.repo.CreateTask(ctx, task); err != nil {
		return Ticket{}, fmt.Errorf("failed to create task %q in queue %q: %w", task.Name, task.Queue, err)
	}
	return task.Ticket(), nil
}
