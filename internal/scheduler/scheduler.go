package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/garnizeh/oppboard/internal/jobs"
)

// Scheduler periodically enqueues the orphan-bookmark sweep.
type Scheduler struct {
	cron   *cron.Cron
	enq    jobs.Enqueuer
	spec   string
	logger *slog.Logger
}

func New(spec string, enq jobs.Enqueuer, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(),
		enq:    enq,
		spec:   spec,
		logger: logger,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec)
	return nil
}

// Sweep enqueues one orphan purge job.
func (s *Scheduler) Sweep(ctx context.Context) {
	id, err := s.enq.Enqueue(ctx, jobs.TypePurgeOrphans, struct{}{}, 200, 3)
	if err != nil {
		s.logger.Error("scheduled sweep enqueue failed", "err", err)
		return
	}
	s.logger.Debug("scheduled sweep enqueued", "job_id", id)
}

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
