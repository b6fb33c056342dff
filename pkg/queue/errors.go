package queue

import "errors"

var (
	// ErrRepositoryNil is returned when a nil repository is provided
	ErrRepositoryNil = errors.New("queue: repository cannot be nil")

	// ErrPayloadNil is returned when attempting to enqueue a nil payload
	ErrPayloadNil = errors.New("queue: payload cannot be nil")

	// ErrNoTaskToClaim is returned by storage when nothing is ready
	ErrNoTaskToClaim = errors.New("queue: no task to claim")

	// ErrTaskNotFound is returned for unknown task ids
	ErrTaskNotFound = errors.New("queue: task not found")

	// ErrHandlerNotFound is returned when no handler is registered for a task
	ErrHandlerNotFound = errors.New("queue: no handler registered for task")

	// ErrNoHandlers is returned when the worker has no handlers registered
	ErrNoHandlers = errors.New("queue: no task handlers registered")
)
