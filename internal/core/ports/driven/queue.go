package driven

import (
	"context"
	"errors"
	"time"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// JobQueue is the message-passing boundary between the gateway and workers.
// Delivery is at least once: a consumed job that is never acked is delivered again.
type JobQueue interface {
	// Publish enqueues a job descriptor and returns without waiting for it.
	Publish(ctx context.Context, job domain.Job) error

	// Consume blocks until a job is available or ctx is done.
	Consume(ctx context.Context) (domain.Job, Receipt, error)

	// Ack confirms a consumed job so it is not delivered again.
	Ack(ctx context.Context, receipt Receipt) error

	// Close releases resources.
	Close() error
}

// RecoverableQueue is a JobQueue that keeps deliveries of dead consumers
// in a list of its own. Recover moves them back so they are consumed again.
type RecoverableQueue interface {
	JobQueue
	Recover(ctx context.Context) (int, error)
}

// ErrQueueClosed is returned by Publish and Consume after Close.
var ErrQueueClosed = errors.New("queue closed")

// Receipt identifies one delivery of a job.
type Receipt string

// Locker provides mutual exclusion across workers and processes.
type Locker interface {
	// Lock acquires key for at most ttl. It returns domain.ErrLockHeld
	// when another owner holds the key.
	Lock(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}

// Unlock releases a lock acquired with Locker.Lock.
type Unlock func(ctx context.Context) error
