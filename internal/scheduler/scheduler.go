// Package scheduler runs the daily maintenance jobs: challenge generation and the streak sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

const (
	JobDailyChallenges = "daily-challenges"
	JobStreakSweep     = "streak-sweep"

	jobTimeout = 2 * time.Minute
)

// Jobs are the callbacks the scheduler runs.
type Jobs struct {
	DailyChallenges func(ctx context.Context) error
	StreakSweep     func(ctx context.Context) error
}

// Config holds the crontab expressions, evaluated in UTC.
type Config struct {
	DailyChallengeCron string
	StreakSweepCron    string
}

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	sched  gocron.Scheduler
	logger zerolog.Logger
}

// New registers the jobs without starting them.
func New(cfg Config, jobs Jobs, logger zerolog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	s := &Scheduler{sched: sched, logger: logger}

	defs := []struct {
		name string
		cron string
		fn   func(ctx context.Context) error
	}{
		{JobDailyChallenges, cfg.DailyChallengeCron, jobs.DailyChallenges},
		{JobStreakSweep, cfg.StreakSweepCron, jobs.StreakSweep},
	}
	for _, d := range defs {
		if d.fn == nil {
			continue
		}
		_, err := sched.NewJob(
			gocron.CronJob(d.cron, false),
			gocron.NewTask(s.run, d.name, d.fn),
			gocron.WithName(d.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = sched.Shutdown()
			return nil, fmt.Errorf("failed to schedule %s (%q): %w", d.name, d.cron, err)
		}
	}

	return s, nil
}

func (s *Scheduler) run(name string, fn func(ctx context.Context) error) {
	logger := s.logger.With().Str("job", name).Logger()
	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		logger.Error().Err(err).Msg("scheduled job failed")
		return
	}
	logger.Info().Dur("duration", time.Since(start)).Msg("scheduled job finished")
}

// Start begins running jobs on their schedules.
func (s *Scheduler) Start() {
	s.sched.Start()
	for _, job := range s.sched.Jobs() {
		next, _ := job.NextRun()
		s.logger.Info().Str("job", job.Name()).Time("next_run", next).Msg("job scheduled")
	}
}

// RunNow triggers a registered job immediately.
func (s *Scheduler) RunNow(name string) error {
	for _, job := range s.sched.Jobs() {
		if job.Name() == name {
			return job.RunNow()
		}
	}
	return fmt.Errorf("job %q not found", name)
}

// Jobs returns the names of the registered jobs.
func (s *Scheduler) Jobs() []string {
	jobs := s.sched.Jobs()
	names := make([]string, len(jobs))
	for i, job := range jobs {
		names[i] = job.Name()
	}
	return names
}

// Shutdown stops the scheduler and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
