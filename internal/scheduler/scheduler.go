// Package scheduler triggers the billing jobs once a day at configured times.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/finance_ledger/internal/middleware"
)

// ScheduleTime represents a specific time of day when a job should run.
type ScheduleTime struct {
	Hour   int
	Minute int
}

// String returns the time in HH:MM format.
func (st ScheduleTime) String() string {
	return fmt.Sprintf("%02d:%02d", st.Hour, st.Minute)
}

// ParseScheduleTime parses a time string in HH:MM format.
func ParseScheduleTime(s string) (ScheduleTime, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return ScheduleTime{}, fmt.Errorf("invalid time format %q (expected HH:MM): %w", s, err)
	}
	if hour < 0 || hour > 23 {
		return ScheduleTime{}, fmt.Errorf("invalid hour: %d (must be 0-23)", hour)
	}
	if minute < 0 || minute > 59 {
		return ScheduleTime{}, fmt.Errorf("invalid minute: %d (must be 0-59)", minute)
	}
	return ScheduleTime{Hour: hour, Minute: minute}, nil
}

// due reports whether now is at or past st on now's day.
func (st ScheduleTime) due(now time.Time) bool {
	return now.Hour() > st.Hour || (now.Hour() == st.Hour && now.Minute() >= st.Minute)
}

// RunFunc executes a job for the given calendar day (midnight UTC).
type RunFunc func(ctx context.Context, today time.Time) error

// Job is a named daily task.
type Job struct {
	Name string
	At   ScheduleTime
	Run  RunFunc
}

// Scheduler runs each job at most once per UTC day, at or after its time. A job
// that was missed because the process was down runs on the next tick of the same day.
type Scheduler struct {
	jobs    []Job
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time

	mu      sync.Mutex
	lastRun map[string]string // job name -> YYYY-MM-DD

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler. timeout bounds each job run.
func New(logger *slog.Logger, timeout time.Duration, jobs ...Job) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:    jobs,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
		lastRun: make(map[string]string),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the scheduling loop, checking every minute.
func (s *Scheduler) Start() {
	for _, job := range s.jobs {
		s.logger.Info("Scheduler: job registered", slog.String("job", job.Name), slog.String("at", job.At.String()))
	}
	s.wg.Add(1)
	go s.loop()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	s.Tick(s.now())
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Scheduler loop: context cancelled, shutting down")
			return
		case <-ticker.C:
			s.Tick(s.now())
		}
	}
}

// Tick runs, sequentially, every job that is due at now and has not run today.
// It returns the names of the jobs it ran.
func (s *Scheduler) Tick(now time.Time) []string {
	now = now.UTC()
	day := now.Format(time.DateOnly)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var ran []string
	for _, job := range s.jobs {
		if !job.At.due(now) || !s.claim(job.Name, day) {
			continue
		}
		s.run(job, today)
		ran = append(ran, job.Name)
	}
	return ran
}

func (s *Scheduler) claim(name, day string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun[name] == day {
		return false
	}
	s.lastRun[name] = day
	return true
}

func (s *Scheduler) run(job Job, today time.Time) {
	logger := s.logger.With(slog.String("job", job.Name), slog.String("date", today.Format(time.DateOnly)))
	ctx, cancel := context.WithTimeout(middleware.WithLogger(s.ctx, logger), s.timeout)
	defer cancel()

	start := time.Now()
	logger.Info("Scheduler: job started")
	if err := job.Run(ctx, today); err != nil {
		logger.Error("Scheduler: job failed", slog.String("error", err.Error()), slog.Duration("elapsed", time.Since(start)))
		return
	}
	logger.Info("Scheduler: job finished", slog.Duration("elapsed", time.Since(start)))
}

// Shutdown stops the loop, waiting up to timeout for a running job.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler: stopped gracefully")
	case <-time.After(timeout):
		s.logger.Warn("Scheduler: timeout waiting for the loop to stop")
	}
}
