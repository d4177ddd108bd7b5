// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/cvindex/core"
)

const defaultWorkers = 4

// HandlerFunc processes one ready job. A non-nil error marks the job
// failed; failure is terminal and the job is never retried.
type HandlerFunc func(ctx context.Context, job *core.Job) error

// Queue is an in-process delayed queue with LIFO dispatch.
//
// Enqueued jobs hold in pending state until their delay elapses, then move
// to a ready stack. A single dispatcher drains the stack newest-first and
// hands jobs to a bounded worker pool, so the most recently readied
// document is always the next one processed.
type Queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	jobs     map[string]*core.Job
	timers   map[string]*time.Timer
	stack    []string
	ready    int
	handlers map[string]HandlerFunc
	closed   bool

	pool   *ants.Pool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// Option configures a Queue.
type Option func(*config)

type config struct {
	workers int
	logger  *slog.Logger
}

// WithWorkers sets the number of concurrent job workers.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger used for job lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a queue and starts its dispatcher.
func New(opts ...Option) (*Queue, error) {
	cfg := &config{
		workers: defaultWorkers,
		logger:  slog.Default().With("component", "queue"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := ants.NewPool(cfg.workers)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		jobs:     make(map[string]*core.Job),
		timers:   make(map[string]*time.Timer),
		handlers: make(map[string]HandlerFunc),
		pool:     pool,
		ctx:      ctx,
		cancel:   cancel,
		logger:   cfg.logger,
	}
	q.cond = sync.NewCond(&q.mu)

	go q.dispatch()
	return q, nil
}

// RegisterHandler binds a handler to a task type. Jobs of a type with no
// handler at dispatch time fail with ErrNoHandler.
func (q *Queue) RegisterHandler(taskType string, fn HandlerFunc) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[taskType] = fn
}

// Enqueue schedules a job to become ready after delay and returns its ID.
// A non-positive delay readies the job immediately.
func (q *Queue) Enqueue(ctx context.Context, taskType string, payload json.RawMessage, delay time.Duration) (string, error) {
	if taskType == "" {
		return "", ErrTaskTypeRequired
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	job := &core.Job{
		Id:         uuid.NewString(),
		Type:       taskType,
		Payload:    payload,
		Status:     core.JobStatusPending,
		EnqueuedAt: time.Now().UTC(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return "", ErrQueueClosed
	}

	q.jobs[job.Id] = job
	q.wg.Add(1)

	if delay <= 0 {
		q.readyLocked(job)
	} else {
		q.timers[job.Id] = time.AfterFunc(delay, func() {
			q.onDelayElapsed(job.Id)
		})
	}

	q.logger.Debug("job enqueued", "job", job.Id, "type", taskType, "delay", delay)
	return job.Id, nil
}

// Job returns a snapshot of a job's current state.
func (q *Queue) Job(id string) (core.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return core.Job{}, ErrUnknownJob
	}
	return *job, nil
}

// Wait blocks until every enqueued job has reached a terminal state.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Release closes the queue. Pending jobs whose delay has not elapsed fail
// with ErrQueueClosed; ready and running jobs drain before the worker pool
// is released. Enqueue after Release returns ErrQueueClosed.
func (q *Queue) Release() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true

	for id, timer := range q.timers {
		if timer.Stop() {
			q.failLocked(q.jobs[id], ErrQueueClosed.Error())
		}
		delete(q.timers, id)
	}
	q.cond.Broadcast()
	q.mu.Unlock()

	q.wg.Wait()
	q.cancel()
	q.pool.Release()
}

// onDelayElapsed moves a pending job to the ready stack.
func (q *Queue) onDelayElapsed(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.timers, id)
	job, ok := q.jobs[id]
	if !ok || job.Status != core.JobStatusPending {
		return
	}
	if q.closed {
		q.failLocked(job, ErrQueueClosed.Error())
		return
	}
	q.readyLocked(job)
}

// readyLocked pushes a job onto the ready stack. Caller holds q.mu.
func (q *Queue) readyLocked(job *core.Job) {
	job.Status = core.JobStatusReady
	q.stack = append(q.stack, job.Id)
	q.ready++
	q.cond.Signal()
}

// popLocked removes and returns the newest ready job ID, or "" when the
// stack is empty. Caller holds q.mu.
func (q *Queue) popLocked() string {
	if len(q.stack) == 0 {
		return ""
	}
	id := q.stack[len(q.stack)-1]
	q.stack = q.stack[:len(q.stack)-1]
	return id
}

// failLocked marks a job failed. Caller holds q.mu.
func (q *Queue) failLocked(job *core.Job, reason string) {
	job.Status = core.JobStatusFailed
	job.Error = reason
	job.FinishedAt = time.Now().UTC()
	q.wg.Done()
}

// dispatch submits one worker slot request per readied job. The stack is
// popped by the worker at execution start, not here, so that when workers
// are saturated the newest ready job still runs next.
func (q *Queue) dispatch() {
	for {
		q.mu.Lock()
		for q.ready == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.ready == 0 && q.closed {
			q.mu.Unlock()
			return
		}
		q.ready--
		q.mu.Unlock()

		// Blocks while the pool is saturated
		if err := q.pool.Submit(q.runNext); err != nil {
			q.mu.Lock()
			if id := q.popLocked(); id != "" {
				q.failLocked(q.jobs[id], err.Error())
			}
			q.mu.Unlock()
		}
	}
}

// runNext pops and executes the newest ready job on a pool worker.
func (q *Queue) runNext() {
	q.mu.Lock()
	id := q.popLocked()
	if id == "" {
		q.mu.Unlock()
		return
	}
	job := q.jobs[id]
	handler := q.handlers[job.Type]
	job.Status = core.JobStatusRunning
	job.StartedAt = time.Now().UTC()
	snapshot := *job
	q.mu.Unlock()

	var err error
	if handler == nil {
		err = ErrNoHandler
	} else {
		err = handler(q.ctx, &snapshot)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	job.FinishedAt = time.Now().UTC()
	if err != nil {
		job.Status = core.JobStatusFailed
		job.Error = err.Error()
		q.logger.Warn("job failed", "job", job.Id, "type", job.Type, "error", err)
	} else {
		job.Status = core.JobStatusCompleted
		q.logger.Debug("job completed", "job", job.Id, "type", job.Type)
	}
	q.wg.Done()
}
