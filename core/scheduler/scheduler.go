package scheduler

import (
	"context"
	"fmt"
	"time"

	"courtside/core/pipeline"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner executes one update run.
type Runner interface {
	Run(ctx context.Context, trigger string) pipeline.Report
}

// Scheduler triggers update runs on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	log    *zap.Logger
	loc    *time.Location
	entry  cron.EntryID
}

// New creates a scheduler running spec (standard five-field cron) in the
// named timezone. An unknown timezone falls back to UTC.
func New(spec, timezone string, runner Runner, log *zap.Logger) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warn("Unknown timezone, falling back to UTC", zap.String("timezone", timezone), zap.Error(err))
		loc = time.UTC
	}

	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		runner: runner,
		log:    log,
		loc:    loc,
	}
	id, err := s.cron.AddFunc(spec, s.trigger)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	s.entry = id
	return s, nil
}

// Start begins scheduling in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started", zap.Time("next_run", s.Next()))
}

// Stop stops scheduling. The returned context is done once a running job
// has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Next returns the next time a run is due.
func (s *Scheduler) Next() time.Time {
	entry := s.cron.Entry(s.entry)
	if entry.Next.IsZero() {
		// Not started yet; schedules are evaluated in the scheduler's location.
		return entry.Schedule.Next(time.Now().In(s.loc))
	}
	return entry.Next
}

func (s *Scheduler) trigger() {
	report := s.runner.Run(context.Background(), pipeline.TriggerSchedule)
	s.log.Info("Scheduled run completed",
		zap.String("run_id", report.RunID),
		zap.Int("total", report.Total),
		zap.Time("next_run", s.Next()),
	)
}
