// Package memory provides an in-process job queue backed by a channel.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// ErrClosed is returned after Close.
var ErrClosed = driven.ErrQueueClosed

// DefaultCapacity is the buffer size used when none is given.
const DefaultCapacity = 1024

// Ensure Queue implements the interface.
var _ driven.JobQueue = (*Queue)(nil)

// Queue delivers jobs to consumers in the same process.
// Consumed jobs stay in flight until acked.
type Queue struct {
	jobs chan domain.Job
	done chan struct{}
	once sync.Once

	mu       sync.Mutex
	inflight map[driven.Receipt]domain.Job
}

// New creates a queue holding up to capacity pending jobs.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		jobs:     make(chan domain.Job, capacity),
		done:     make(chan struct{}),
		inflight: make(map[driven.Receipt]domain.Job),
	}
}

// Publish enqueues job, blocking while the buffer is full.
func (q *Queue) Publish(ctx context.Context, job domain.Job) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}
	select {
	case q.jobs <- job:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume waits for the next job.
func (q *Queue) Consume(ctx context.Context) (domain.Job, driven.Receipt, error) {
	select {
	case job := <-q.jobs:
		receipt := driven.Receipt(uuid.NewString())
		q.mu.Lock()
		q.inflight[receipt] = job
		q.mu.Unlock()
		return job, receipt, nil
	case <-q.done:
		return domain.Job{}, "", ErrClosed
	case <-ctx.Done():
		return domain.Job{}, "", ctx.Err()
	}
}

// Ack forgets an in-flight job.
func (q *Queue) Ack(_ context.Context, receipt driven.Receipt) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.inflight[receipt]; !ok {
		return domain.ErrNotFound
	}
	delete(q.inflight, receipt)
	return nil
}

// Pending returns the number of jobs waiting to be consumed.
func (q *Queue) Pending() int {
	return len(q.jobs)
}

// InFlight returns the number of consumed jobs not yet acked.
func (q *Queue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inflight)
}

// Close stops consumers. Pending jobs are dropped.
func (q *Queue) Close() error {
	q.once.Do(func() { close(q.done) })
	return nil
}
