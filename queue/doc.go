// Package queue provides the in-process delayed job queue that drives
// document processing.
//
// Jobs carry an opaque JSON payload and a task type; handlers are bound
// per task type. Each job becomes ready only after its delay elapses, and
// ready jobs dispatch in LIFO order onto a bounded worker pool. Completed
// and failed are terminal states; there are no retries at the queue level.
package queue
