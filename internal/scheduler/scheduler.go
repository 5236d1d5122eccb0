package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"DailySignal/internal/notifier"
	"DailySignal/internal/scanner"
)

// Cycle is the unit of work fired once per day.
type Cycle interface {
	Scan(ctx context.Context) *scanner.Report
}

// Scheduler fires the scan cycle at a fixed UTC time each day.
type Scheduler struct {
	Cron     *cron.Cron
	Cycle    Cycle
	Notifier notifier.Notifier
	Ctx      context.Context
	log      zerolog.Logger
	dailyAt  string
}

// NewScheduler creates a Scheduler running in UTC. SkipIfStillRunning keeps
// at most one cycle in flight.
func NewScheduler(ctx context.Context, cycle Cycle, n notifier.Notifier, log zerolog.Logger) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Cycle:    cycle,
		Notifier: n,
		Ctx:      ctx,
		log:      log,
	}
}

// DailySpec converts an hour and minute into a seconds-field cron spec.
func DailySpec(hour, minute int) (string, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid daily time %02d:%02d", hour, minute)
	}
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}

// RegisterDaily schedules the scan cycle at hour:minute UTC.
func (s *Scheduler) RegisterDaily(hour, minute int) error {
	spec, err := DailySpec(hour, minute)
	if err != nil {
		return err
	}
	if _, err := s.Cron.AddFunc(spec, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register daily scan: %w", err)
	}
	s.dailyAt = fmt.Sprintf("%02d:%02d", hour, minute)
	s.log.Info().Str("spec", spec).Str("at", s.dailyAt+" UTC").Msg("daily scan registered")
	return nil
}

// Start sends the liveness message and starts the cron scheduler.
func (s *Scheduler) Start() {
	if err := s.Notifier.Send(s.Ctx, notifier.FormatStartup(s.dailyAt)); err != nil {
		s.log.Error().Err(err).Msg("send startup notification")
	}
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to return.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// Next returns the next firing time, or the zero time when nothing is scheduled.
func (s *Scheduler) Next() time.Time {
	entries := s.Cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunNow executes the scan cycle immediately (for RUN_ON_START).
func (s *Scheduler) RunNow() *scanner.Report {
	s.log.Info().Msg("running daily scan")
	return s.Cycle.Scan(s.Ctx)
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
