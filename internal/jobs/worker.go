package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type WorkerPool struct {
	queue        Queue
	handlers     map[string]Handler
	logger       *slog.Logger
	workerCount  int
	pollInterval time.Duration
	stop         chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

func NewWorkerPool(queue Queue, handlers map[string]Handler, logger *slog.Logger, workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkerPool{
		queue:        queue,
		handlers:     handlers,
		logger:       logger,
		workerCount:  workerCount,
		pollInterval: 500 * time.Millisecond,
		stop:         make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop signals workers to stop and waits for them. Safe to call twice.
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	p.wg.Wait()
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			p.logger.Info("worker stopping", "id", id)
			return
		case <-ctx.Done():
			p.logger.Info("context canceled, worker exiting", "id", id)
			return
		default:
		}

		job, err := p.queue.FetchNext(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.logger.Error("fetch job", "err", err)
			}
			p.sleep(ctx, time.Second)
			continue
		}
		if job == nil {
			// nothing to do
			p.sleep(ctx, p.pollInterval)
			continue
		}

		p.process(ctx, job)
	}
}

func (p *WorkerPool) process(ctx context.Context, job *Job) {
	h, ok := p.handlers[job.Type]
	if !ok {
		job.Status = StatusFailed
		job.LastError = "no handler"
		if err := p.queue.MoveToDeadLetter(ctx, job); err != nil {
			p.logger.Error("move to dead letter", "err", err, "job_id", job.ID)
		}
		return
	}

	err := h(ctx, job)
	if err == nil {
		job.Status = StatusDone
		job.NextTryAt = nil
		if upErr := p.queue.UpdateJob(ctx, job); upErr != nil {
			p.logger.Error("update job", "err", upErr, "job_id", job.ID)
		}
		return
	}

	job.Attempts++
	job.LastError = err.Error()
	if job.Attempts >= job.MaxAttempts {
		job.Status = StatusFailed
		p.logger.Warn("job failed permanently", "job_id", job.ID, "type", job.Type, "err", fmt.Errorf("%w: %v", ErrMaxAttempts, err))
		if mvErr := p.queue.MoveToDeadLetter(ctx, job); mvErr != nil {
			p.logger.Error("move to dead letter", "err", mvErr, "job_id", job.ID)
		}
		return
	}

	// schedule retry with backoff
	t := time.Now().Add(BackoffDuration(job.Attempts))
	job.NextTryAt = &t
	job.Status = StatusRetry
	if upErr := p.queue.UpdateJob(ctx, job); upErr != nil {
		p.logger.Error("update job for retry", "err", upErr, "job_id", job.ID)
	}
}

func (p *WorkerPool) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-p.stop:
	case <-ctx.Done():
	}
}

// Enqueue convenience helper that creates a job and persists it
func (p *WorkerPool) Enqueue(ctx context.Context, typ string, payload any, priority int, maxAttempts int) (int64, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	j := &Job{Type: typ, Payload: b, Priority: priority, MaxAttempts: maxAttempts, ScheduledAt: time.Now()}
	return p.queue.Enqueue(ctx, j)
}
