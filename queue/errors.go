package queue

import "errors"

var (
	// ErrQueueClosed indicates the queue has been released.
	ErrQueueClosed = errors.New("queue is closed")

	// ErrUnknownJob indicates no job exists with the requested ID.
	ErrUnknownJob = errors.New("unknown job")

	// ErrNoHandler indicates a job was dispatched with no handler
	// registered for its task type.
	ErrNoHandler = errors.New("no handler registered for task type")

	// ErrTaskTypeRequired indicates a job was enqueued without a task type.
	ErrTaskTypeRequired = errors.New("task type required")
)
