package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mwhitfield/jobwatch/internal/usecase"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the check cycle on a cron schedule. Overlapping runs are
// skipped rather than queued: if a cycle is still in flight when the next
// tick fires, the tick is dropped.
type Scheduler struct {
	cron       *cron.Cron
	check      *usecase.CheckUsecase
	schedule   string
	maxRuntime time.Duration
	logger     *zap.Logger
	running    atomic.Bool
}

func New(check *usecase.CheckUsecase, schedule string, maxRuntime time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		check:      check,
		schedule:   schedule,
		maxRuntime: maxRuntime,
		logger:     logger,
	}
}

// Start registers the schedule and kicks off an immediate first cycle so a
// fresh deployment does not wait a full interval for its first alerts.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() { s.run(ctx) })
	if err != nil {
		return err
	}
	s.cron.Start()
	go s.run(ctx)
	return nil
}

// Stop halts the cron loop and waits for an in-flight cycle to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("check cycle still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	summary, err := s.check.Run(ctx, usecase.CheckOptions{
		Notify:     true,
		MaxRuntime: s.maxRuntime,
	})
	if err != nil {
		s.logger.Error("scheduled check failed", zap.Error(err))
		return
	}
	if len(summary.Errors) > 0 {
		s.logger.Warn("scheduled check finished with errors", zap.Strings("errors", summary.Errors))
	}
}
