package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"retreehawaii/mailexport/pkg/export"
)

// Runner performs one full export run.
type Runner interface {
	Run(ctx context.Context) export.Summary
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context) export.Summary

// Run calls f(ctx).
func (f RunnerFunc) Run(ctx context.Context) export.Summary {
	return f(ctx)
}

// Scheduler repeats export runs on a cron schedule (e.g. daily at 3 AM).
// Runs never overlap: a tick that fires while the previous run is still
// going is skipped.
type Scheduler struct {
	runner Runner
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	spec    string
	entry   cron.EntryID
	running bool

	runs atomic.Int64
}

// NewScheduler creates a scheduler for runner.
func NewScheduler(runner Runner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "export.scheduler")

	return &Scheduler{
		runner: runner,
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{logger}),
			cron.SkipIfStillRunning(cronLogger{logger}),
		)),
		logger: logger,
	}
}

// Start schedules runs according to spec and starts the scheduler. Runs
// receive ctx; the scheduler stops when ctx is cancelled.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//   - "@every 30m"   - Every 30 minutes
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	s.ctx = ctx
	if err := s.scheduleLocked(spec); err != nil {
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("export scheduler started", "schedule", spec)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Reschedule replaces the schedule of a running scheduler. A run in
// progress is not interrupted. On error the previous schedule is kept.
func (s *Scheduler) Reschedule(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("scheduler not running")
	}
	if spec == s.spec {
		return nil
	}

	previous := s.entry
	if err := s.scheduleLocked(spec); err != nil {
		return err
	}
	s.cron.Remove(previous)

	s.logger.Info("export schedule changed", "schedule", spec)
	return nil
}

// scheduleLocked validates spec and adds the run job. s.mu must be held.
func (s *Scheduler) scheduleLocked(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	ctx := s.ctx
	id, err := s.cron.AddFunc(spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export: %w", err)
	}

	s.spec = spec
	s.entry = id
	return nil
}

// runOnce executes one scheduled run.
func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	n := s.runs.Add(1)
	s.logger.Info("starting scheduled export", "run", n)

	summary := s.runner.Run(ctx)

	if len(summary.Failed) > 0 {
		s.logger.Warn("scheduled export finished with failures",
			"run_id", summary.RunID,
			"failed", summary.Failed,
			"templates", summary.Templates,
			"maillog_entries", summary.MailLog,
		)
		return
	}

	s.logger.Info("scheduled export completed",
		"run_id", summary.RunID,
		"templates", summary.Templates,
		"maillog_entries", summary.MailLog,
	)
}

// Stop stops the scheduler and waits for a running export to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("export scheduler stopped", "runs", s.runs.Load())
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// Runs returns the number of runs started so far.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

// Spec returns the active cron expression.
func (s *Scheduler) Spec() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.spec
}

// NextRun returns the next scheduled run time, or nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	entry := s.cron.Entry(s.entry)
	if !entry.Valid() {
		return nil
	}

	next := entry.Next
	if next.IsZero() {
		// The cron loop has not computed it yet.
		next = entry.Schedule.Next(time.Now())
	}
	return &next
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
