package queue

import (
	"time"

	"github.com/google/uuid"
)

// DefaultQueueName is used when no queue is specified
const DefaultQueueName = "default"

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task is an enqueued unit of deferred work.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Queue       string     `json:"queue"`
	Name        string     `json:"name"`
	Payload     []byte     `json:"payload,omitempty"`
	Status      TaskStatus `json:"status"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Ticket is the receipt returned to the caller that enqueued a task.
type Ticket struct {
	ID          uuid.UUID `json:"id"`
	Queue       string    `json:"queue"`
	Name        string    `json:"name"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Ticket returns the receipt for t.
func (t Task) Ticket() Ticket {
	return Ticket{ID: t.ID, Queue: t.Queue, Name: t.Name, ScheduledAt: t.ScheduledAt}
}
