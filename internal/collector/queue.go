// Package collector implements the polling pipeline: a scheduler that
// enqueues fetch jobs on an interval and a worker pool that performs
// fetch -> normalize -> forward cycles.
package collector

import (
	"context"
	"sync"

	"github.com/snappulse/snappulse/pkg/metrics"
)

// Default queue capacity.
const defaultQueueCapacity = 256

// FetchJob is one scheduled poll of the catalog for a snap.
type FetchJob struct {
	CycleID string
	Snap    string
}

// Queue provides non-blocking enqueue and channel-based dequeue of
// fetch jobs.
type Queue struct {
	jobs   chan FetchJob
	mu     sync.RWMutex
	closed bool
}

// NewQueue creates a bounded in-memory job queue.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = defaultQueueCapacity
	}
	return &Queue{jobs: make(chan FetchJob, capacity)}
}

// Enqueue adds a job without blocking.
// Returns false if the queue is full or closed.
func (q *Queue) Enqueue(ctx context.Context, job FetchJob) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("collector_queue", "closed")
		return false
	}

	select {
	case q.jobs <- job:
		metrics.UpdateQueueDepth(len(q.jobs))
		return true
	default:
		metrics.RecordErrorByComponent("collector_queue", "capacity_exceeded")
		return false
	}
}

// Dequeue returns the channel workers receive jobs from. The channel is
// closed when the queue is closed.
func (q *Queue) Dequeue(ctx context.Context) <-chan FetchJob {
	return q.jobs
}

// Len returns the number of queued jobs.
func (q *Queue) Len(ctx context.Context) int {
	return len(q.jobs)
}

// Close shuts the queue; queued jobs remain consumable.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	return nil
}
