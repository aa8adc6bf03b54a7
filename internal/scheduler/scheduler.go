// Package scheduler wires up the cron job that periodically runs an ingest
// batch over the configured employers.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"jobmate/ats-ingest/internal/model"
	"jobmate/ats-ingest/internal/scraper"
)

// Runner executes one ingest batch. *scraper.Worker satisfies it.
type Runner interface {
	Run(ctx context.Context, employers []model.Employer) ([]model.EnrichedJob, scraper.RunSummary, error)
}

// EmployerSource returns the employers for the next batch.
type EmployerSource func(ctx context.Context) ([]model.Employer, error)

// Scheduler wraps robfig/cron and manages the ingest loop.
type Scheduler struct {
	cron      *cron.Cron
	runner    Runner
	employers EmployerSource
	spec      string // cron spec, e.g. "@every 6h"
	log       *slog.Logger

	mu      sync.Mutex // one batch at a time
	running bool

	startup sync.WaitGroup // the immediate run launched by Start
}

// New creates a Scheduler that fires every intervalHours hours.
func New(runner Runner, employers EmployerSource, intervalHours int, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "scheduler")
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cron.DiscardLogger)),
		runner:    runner,
		employers: employers,
		spec:      fmt.Sprintf("@every %dh", intervalHours),
		log:       log,
	}
}

// Spec returns the cron expression the scheduler registers.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the job and starts the scheduler. One batch also runs
// immediately so the store is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("cron started", "spec", s.spec)

	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		s.RunOnce(ctx)
	}()

	return nil
}

// Stop halts the scheduler and waits for running batches, the startup one
// included, to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.startup.Wait()
	s.log.Info("cron stopped")
}

// RunOnce loads employers and runs one batch. A tick that arrives while a
// batch is still in flight is skipped. It reports whether a batch ran.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("previous batch still running, skipping tick")
		return false
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	employers, err := s.employers(ctx)
	if err != nil {
		s.log.Error("load employers", "error", err)
		return false
	}
	if len(employers) == 0 {
		s.log.Info("no employers configured, nothing to ingest")
		return false
	}

	_, summary, err := s.runner.Run(ctx, employers)
	if err != nil {
		s.log.Error("ingest batch failed", "run", summary.RunID, "error", err)
		return true
	}
	return true
}
