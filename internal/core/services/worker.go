package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
	"github.com/mhsabu/Neugrove/internal/logger"
	"github.com/mhsabu/Neugrove/internal/metrics"
)

// consumeBackoff is the pause after a failed Consume call.
const consumeBackoff = time.Second

// Worker consumes ingest jobs from the queue.
type Worker struct {
	queue       driven.JobQueue
	processor   driving.IngestProcessor
	concurrency int
	metrics     *metrics.Metrics

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWorker creates a worker running concurrency consumers.
func NewWorker(queue driven.JobQueue, processor driving.IngestProcessor, concurrency int, m *metrics.Metrics) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		queue:       queue,
		processor:   processor,
		concurrency: concurrency,
		metrics:     m,
	}
}

// Run consumes jobs until ctx is done or Stop is called. It blocks.
func (w *Worker) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	ctx, cancel := context.WithCancel(ctx)
	w.running = true
	w.cancel = cancel
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	defer func() {
		cancel()
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(done)
	}()

	w.recover(ctx)

	logger.Info("Worker started with %d consumers", w.concurrency)
	g, gctx := errgroup.WithContext(ctx)
	for i := range w.concurrency {
		g.Go(func() error {
			return w.consume(gctx, i)
		})
	}
	err := g.Wait()
	logger.Info("Worker stopped")
	return err
}

// Stop cancels the consumers and waits for in-flight jobs to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done
}

// recover requeues deliveries that consumers of an earlier run never acked.
func (w *Worker) recover(ctx context.Context) {
	rq, ok := w.queue.(driven.RecoverableQueue)
	if !ok {
		return
	}
	n, err := rq.Recover(ctx)
	if err != nil {
		logger.Warn("recovering unacked jobs: %v", err)
		return
	}
	if n > 0 {
		logger.Info("Requeued %d unacked jobs", n)
	}
}

func (w *Worker) consume(ctx context.Context, id int) error {
	for {
		job, receipt, err := w.queue.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, driven.ErrQueueClosed) {
				return nil
			}
			logger.Warn("consumer %d: %v", id, err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(consumeBackoff):
			}
			continue
		}

		if !w.Handle(ctx, job) {
			// Shutting down mid-job: leave it unacked for redelivery.
			return nil
		}
		if err := w.queue.Ack(context.WithoutCancel(ctx), receipt); err != nil {
			logger.Warn("ack %s for ingest %d: %v", job.Kind, job.IngestID, err)
		}
	}
}

// Handle runs one job and reports whether it should be acked.
// Failed jobs are recorded on the ingest and still acked; jobs owned by
// another worker or already finished are acked without work.
func (w *Worker) Handle(ctx context.Context, job domain.Job) (ack bool) {
	outcome := metrics.OutcomeDone
	defer func() { w.metrics.JobFinished(string(job.Kind), outcome) }()
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorStack(fmt.Errorf("%v", r), "panic handling %s for ingest %d", job.Kind, job.IngestID)
			outcome, ack = metrics.OutcomeFailed, true
		}
	}()

	switch job.Kind {
	case domain.JobExtractFile, domain.JobExtractURL:
	default:
		logger.Warn("unknown job kind %q for ingest %d", job.Kind, job.IngestID)
		outcome = metrics.OutcomeInvalid
		return true
	}

	msg, err := w.processor.Process(ctx, job.IngestID)
	switch {
	case err == nil:
		logger.Debug("%s", msg)
	case ctx.Err() != nil:
		outcome = metrics.OutcomeFailed
		return false
	case errors.Is(err, domain.ErrLockHeld), errors.Is(err, domain.ErrInvalidState):
		logger.Debug("skipping %s for ingest %d: %v", job.Kind, job.IngestID, err)
		outcome = metrics.OutcomeSkipped
	default:
		outcome = metrics.OutcomeFailed
	}
	return true
}
