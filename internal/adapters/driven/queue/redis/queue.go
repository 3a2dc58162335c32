// Package redis provides a reliable job queue on Redis lists.
//
// Publish pushes to the pending list. Consume atomically moves a message to
// the processing list with BLMOVE, and Ack removes it from there, so a worker
// that dies mid-job leaves the message recoverable with Recover.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mhsabu/Neugrove/internal/adapters/driven/queue"
	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/logger"
)

// DefaultKey is the pending list name.
const DefaultKey = "neugrove:jobs"

// pollTimeout bounds one BLMOVE so context cancellation is observed.
const pollTimeout = time.Second

// Ensure Queue implements the interface.
var _ driven.RecoverableQueue = (*Queue)(nil)

// Queue is a Redis list backed job queue.
type Queue struct {
	rdb        redis.UniversalClient
	pending    string
	processing string
	owned      bool
}

// New creates a queue on an existing client. The client is not closed by Close.
func New(rdb redis.UniversalClient, key string) *Queue {
	if key == "" {
		key = DefaultKey
	}
	return &Queue{rdb: rdb, pending: key, processing: key + ":processing"}
}

// Dial connects to url (redis://...) and creates a queue that owns the client.
func Dial(ctx context.Context, url, key string) (*Queue, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	q := New(rdb, key)
	q.owned = true
	return q, nil
}

// Publish pushes the job to the pending list.
func (q *Queue) Publish(ctx context.Context, job domain.Job) error {
	body, err := queue.Encode(job)
	if err != nil {
		return err
	}
	if err := q.rdb.LPush(ctx, q.pending, body).Err(); err != nil {
		return fmt.Errorf("publishing job: %w", err)
	}
	return nil
}

// Consume blocks until a job moves into the processing list.
// The receipt is the raw message so Ack can remove exactly that entry.
func (q *Queue) Consume(ctx context.Context) (domain.Job, driven.Receipt, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Job{}, "", err
		}
		body, err := q.rdb.BLMove(ctx, q.pending, q.processing, "RIGHT", "LEFT", pollTimeout).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return domain.Job{}, "", ctx.Err()
			}
			return domain.Job{}, "", fmt.Errorf("consuming job: %w", err)
		}

		job, err := queue.Decode([]byte(body))
		if err != nil {
			// Poison messages are dropped so they do not block the queue.
			logger.Warn("dropping undecodable job %q: %v", body, err)
			_ = q.rdb.LRem(ctx, q.processing, 1, body).Err()
			continue
		}
		return job, driven.Receipt(body), nil
	}
}

// Ack removes the message from the processing list.
func (q *Queue) Ack(ctx context.Context, receipt driven.Receipt) error {
	n, err := q.rdb.LRem(ctx, q.processing, 1, string(receipt)).Result()
	if err != nil {
		return fmt.Errorf("acking job: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Recover moves every message left in the processing list back to pending
// and reports how many moved. Workers call it on startup. A message still
// owned by a live consumer is delivered twice; the ingest lock and status
// checks make the second delivery a no-op.
func (q *Queue) Recover(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.rdb.LMove(ctx, q.processing, q.pending, "RIGHT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("recovering jobs: %w", err)
		}
		moved++
	}
}

// Len returns the pending and processing list lengths.
func (q *Queue) Len(ctx context.Context) (pending, processing int64, err error) {
	pending, err = q.rdb.LLen(ctx, q.pending).Result()
	if err != nil {
		return 0, 0, err
	}
	processing, err = q.rdb.LLen(ctx, q.processing).Result()
	return pending, processing, err
}

// Close closes the client when the queue dialled it.
func (q *Queue) Close() error {
	if q.owned {
		return q.rdb.Close()
	}
	return nil
}
