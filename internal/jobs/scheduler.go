// Package jobs runs periodic maintenance next to the API server.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CommentRecounter repairs denormalized comment counters.
type CommentRecounter interface {
	RecountComments(ctx context.Context) (int64, error)
}

// Scheduler wraps cron-based jobs.
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	timeout time.Duration
}

func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     log,
		timeout: 5 * time.Minute,
	}
}

// ScheduleRecount registers the comment counter reconciliation. An empty
// spec leaves it disabled.
func (s *Scheduler) ScheduleRecount(spec string, recounter CommentRecounter) error {
	if spec == "" {
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		RecountComments(context.Background(), recounter, s.log, s.timeout)
	})
	return err
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	return nil
}

// RecountComments runs one reconciliation pass.
func RecountComments(ctx context.Context, recounter CommentRecounter, log *zap.Logger, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	fixed, err := recounter.RecountComments(ctx)
	if err != nil {
		log.Error("comment recount failed", zap.Error(err))
		return
	}
	log.Info("comment recount finished",
		zap.Int64("tasks_fixed", fixed),
		zap.Duration("took", time.Since(start)),
	)
}
