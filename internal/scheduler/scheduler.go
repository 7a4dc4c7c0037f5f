// Package scheduler runs a job immediately and then on a fixed interval.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Job is one scheduled invocation.
type Job func(ctx context.Context)

// Scheduler triggers a job at start and every interval after that. A run
// that is still in flight causes the next trigger to be skipped, and a
// panicking run is logged without stopping the schedule.
type Scheduler struct {
	interval time.Duration
	c        *cron.Cron
	logger   cron.Logger

	stopOnce sync.Once
}

func New(interval time.Duration) *Scheduler {
	logger := cronLogger{logger: log.StandardLogger()}
	return &Scheduler{
		interval: interval,
		logger:   logger,
		c:        cron.New(cron.WithLogger(logger)),
	}
}

// Start runs job once synchronously, then schedules it. The schedule stops
// when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context, job Job) {
	// Recover sits inside SkipIfStillRunning, which does not release its
	// slot when the wrapped job panics.
	wrapped := cron.NewChain(
		cron.SkipIfStillRunning(s.logger),
		cron.Recover(s.logger),
	).Then(cron.FuncJob(func() { job(ctx) }))

	wrapped.Run()

	s.c.Schedule(cron.Every(s.interval), wrapped)
	s.c.Start()
	log.Infof("🚀 Scheduler started, interval %s", s.interval)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		<-s.c.Stop().Done()
		log.Info("Scheduler stopped")
	})
}
