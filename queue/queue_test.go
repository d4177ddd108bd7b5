package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/cvindex/core"
)

func newTestQueue(t *testing.T, opts ...Option) *Queue {
	t.Helper()
	q, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(q.Release)
	return q
}

func TestEnqueueValidation(t *testing.T) {
	q := newTestQueue(t)

	t.Run("RequiresTaskType", func(t *testing.T) {
		_, err := q.Enqueue(context.Background(), "", nil, 0)
		assert.ErrorIs(t, err, ErrTaskTypeRequired)
	})

	t.Run("HonorsContextCancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := q.Enqueue(ctx, "process", nil, 0)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestJobCompletes(t *testing.T) {
	q := newTestQueue(t)

	var got json.RawMessage
	q.RegisterHandler("process", func(ctx context.Context, job *core.Job) error {
		got = job.Payload
		return nil
	})

	payload := json.RawMessage(`{"documentPath":"/srv/cv-storage/a.pdf"}`)
	id, err := q.Enqueue(context.Background(), "process", payload, 0)
	require.NoError(t, err)
	q.Wait()

	job, err := q.Job(id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, job.Status)
	assert.Empty(t, job.Error)
	assert.False(t, job.StartedAt.IsZero())
	assert.False(t, job.FinishedAt.IsZero())
	assert.JSONEq(t, string(payload), string(got))
}

func TestJobFailureIsTerminal(t *testing.T) {
	q := newTestQueue(t)

	var calls atomic.Int32
	q.RegisterHandler("process", func(ctx context.Context, job *core.Job) error {
		calls.Add(1)
		return errors.New("document is not parseable")
	})

	id, err := q.Enqueue(context.Background(), "process", nil, 0)
	require.NoError(t, err)
	q.Wait()

	job, err := q.Job(id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusFailed, job.Status)
	assert.Equal(t, "document is not parseable", job.Error)

	// No retry after failure
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMissingHandlerFailsJob(t *testing.T) {
	q := newTestQueue(t)

	id, err := q.Enqueue(context.Background(), "unbound", nil, 0)
	require.NoError(t, err)
	q.Wait()

	job, err := q.Job(id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusFailed, job.Status)
	assert.Equal(t, ErrNoHandler.Error(), job.Error)
}

func TestDelayFloor(t *testing.T) {
	q := newTestQueue(t)

	var started time.Time
	q.RegisterHandler("process", func(ctx context.Context, job *core.Job) error {
		started = time.Now()
		return nil
	})

	const delay = 80 * time.Millisecond
	enqueued := time.Now()
	id, err := q.Enqueue(context.Background(), "process", nil, delay)
	require.NoError(t, err)

	// Still pending while the delay runs
	job, err := q.Job(id)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusPending, job.Status)

	q.Wait()
	assert.GreaterOrEqual(t, started.Sub(enqueued), delay)
}

func TestLIFODispatchOrder(t *testing.T) {
	q := newTestQueue(t, WithWorkers(1))

	gate := make(chan struct{})
	var mu sync.Mutex
	var order []string

	q.RegisterHandler("gate", func(ctx context.Context, job *core.Job) error {
		<-gate
		return nil
	})
	q.RegisterHandler("process", func(ctx context.Context, job *core.Job) error {
		mu.Lock()
		order = append(order, string(job.Payload))
		mu.Unlock()
		return nil
	})

	ctx := context.Background()

	// Occupy the single worker so readied jobs pile up on the stack.
	_, err := q.Enqueue(ctx, "gate", nil, 0)
	require.NoError(t, err)

	_, err = q.Enqueue(ctx, "process", json.RawMessage(`"a"`), 20*time.Millisecond)
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, "process", json.RawMessage(`"b"`), 60*time.Millisecond)
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, "process", json.RawMessage(`"c"`), 100*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(200 * time.Millisecond)
	close(gate)
	q.Wait()

	// c readied last, so it dispatches first
	assert.Equal(t, []string{`"c"`, `"b"`, `"a"`}, order)
}

func TestExactlyOnceDispatch(t *testing.T) {
	q := newTestQueue(t, WithWorkers(8))

	var mu sync.Mutex
	seen := make(map[string]int)
	q.RegisterHandler("process", func(ctx context.Context, job *core.Job) error {
		mu.Lock()
		seen[job.Id]++
		mu.Unlock()
		return nil
	})

	ctx := context.Background()
	const jobs = 50
	ids := make([]string, 0, jobs)
	for i := 0; i < jobs; i++ {
		id, err := q.Enqueue(ctx, "process", nil, time.Duration(i%5)*time.Millisecond)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	q.Wait()

	require.Len(t, seen, jobs)
	for _, id := range ids {
		assert.Equal(t, 1, seen[id], "job %s dispatched more than once", id)
	}
}

func TestRelease(t *testing.T) {
	t.Run("FailsUndeliveredPendingJobs", func(t *testing.T) {
		q, err := New()
		require.NoError(t, err)

		id, err := q.Enqueue(context.Background(), "process", nil, time.Hour)
		require.NoError(t, err)

		q.Release()

		job, err := q.Job(id)
		require.NoError(t, err)
		assert.Equal(t, core.JobStatusFailed, job.Status)
		assert.Equal(t, ErrQueueClosed.Error(), job.Error)
	})

	t.Run("RejectsEnqueueAfterRelease", func(t *testing.T) {
		q, err := New()
		require.NoError(t, err)
		q.Release()

		_, err = q.Enqueue(context.Background(), "process", nil, 0)
		assert.ErrorIs(t, err, ErrQueueClosed)
	})

	t.Run("Idempotent", func(t *testing.T) {
		q, err := New()
		require.NoError(t, err)
		q.Release()
		q.Release()
	})
}

func TestJobUnknownID(t *testing.T) {
	q := newTestQueue(t)
	_, err := q.Job("no-such-job")
	assert.ErrorIs(t, err, ErrUnknownJob)
}
