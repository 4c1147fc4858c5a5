// Package scheduler runs the nightly maintenance jobs on a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultTimeout = 5 * time.Minute

// Job is one unit of scheduled work. Run gets its own timeout context.
type Job struct {
	Name    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler creates a new Scheduler. Specs take a leading seconds field,
// e.g. "0 0 0 * * *" for midnight.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DiscardLogger))),
		logger: logger,
	}
}

// Add registers jobs to run in order on spec.
func (s *Scheduler) Add(spec string, jobs ...Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		for _, j := range jobs {
			_ = s.Run(context.Background(), j)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	s.logger.Info("jobs scheduled", "spec", spec, "jobs", len(jobs))
	return nil
}

// Run executes j once, logging its outcome.
func (s *Scheduler) Run(ctx context.Context, j Job) error {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := j.Run(ctx); err != nil {
		s.logger.Error("job failed", "job", j.Name, "error", err)
		return fmt.Errorf("job %s: %w", j.Name, err)
	}
	s.logger.Info("job completed", "job", j.Name, "duration", time.Since(start))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs or ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
