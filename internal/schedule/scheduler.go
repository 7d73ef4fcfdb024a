// Package schedule runs sync jobs periodically with gocron.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

// Scheduler wraps a gocron scheduler. Every job runs in singleton mode: a tick
// that fires while the previous run is still going is skipped, so two runs
// never touch the documentation tree at once.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.InternalError("failed to create scheduler").WithCause(err).Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start(_ context.Context) {
	slog.Info("Starting scheduler", slog.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop(_ context.Context) error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleCron runs task on a five-field cron expression and returns the job id.
func (s *Scheduler) ScheduleCron(name, expr string, task func()) (string, error) {
	return s.schedule(name, gocron.CronJob(expr, false), task, "schedule", expr)
}

// ScheduleEvery runs task at a fixed interval and returns the job id.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, task func()) (string, error) {
	if interval <= 0 {
		return "", errors.ConfigError("schedule interval must be positive").
			WithContext("interval", interval.String()).
			Build()
	}
	return s.schedule(name, gocron.DurationJob(interval), task, "interval", interval.String())
}

// NextRun returns when the job with id fires next.
func (s *Scheduler) NextRun(id string) (time.Time, error) {
	for _, j := range s.scheduler.Jobs() {
		if j.ID().String() == id {
			return j.NextRun()
		}
	}
	return time.Time{}, errors.NotFoundError("scheduled job not found").WithContext("job", id).Build()
}

func (s *Scheduler) schedule(name string, def gocron.JobDefinition, task func(), key, value string) (string, error) {
	job, err := s.scheduler.NewJob(
		def,
		gocron.NewTask(func() {
			slog.Info("Executing scheduled job", slog.String("job", name))
			task()
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", errors.ConfigError("invalid job schedule").
			WithCause(err).
			WithContext(key, value).
			Build()
	}
	return job.ID().String(), nil
}
