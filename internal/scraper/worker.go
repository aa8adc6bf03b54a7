package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"jobmate/ats-ingest/internal/model"
	"jobmate/ats-ingest/internal/skills"
)

// Sink persists enriched postings. Implementations skip postings whose
// (company, apply_url) already exists and report them as duplicates.
type Sink interface {
	SaveJobs(ctx context.Context, runID string, jobs []model.EnrichedJob) (inserted, duplicates int, err error)
}

// Notifier announces a finished run.
type Notifier interface {
	PublishRun(ctx context.Context, s RunSummary) error
}

// RunSummary describes one ingest cycle.
type RunSummary struct {
	RunID      string        `json:"runId"`
	Employers  int           `json:"employers"`
	Fetched    int           `json:"fetched"`
	Filtered   int           `json:"filtered"`
	Inserted   int           `json:"inserted"`
	Duplicates int           `json:"duplicates"`
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"duration"`
}

// Worker runs the full ingest cycle: fetch through the coordinator, attach
// skill reports, drop red-flagged postings, then hand the rest to the sink.
type Worker struct {
	coord    *Coordinator
	sink     Sink     // optional
	notifier Notifier // optional
	redFlags RedFlags
	log      *slog.Logger
}

// NewWorker constructs a Worker. sink and notifier may be nil.
func NewWorker(coord *Coordinator, sink Sink, notifier Notifier, redFlags []string, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		coord:    coord,
		sink:     sink,
		notifier: notifier,
		redFlags: NewRedFlags(redFlags),
		log:      log.With("component", "worker"),
	}
}

// Run executes one cycle. The enriched postings are returned alongside the
// summary. Only configuration defects (unknown platform) and sink failures
// are returned as errors.
func (w *Worker) Run(ctx context.Context, employers []model.Employer) ([]model.EnrichedJob, RunSummary, error) {
	summary := RunSummary{
		RunID:     uuid.NewString(),
		Employers: len(employers),
		StartedAt: time.Now().UTC(),
	}
	log := w.log.With("run", summary.RunID)
	log.Info("starting ingest", "employers", len(employers))

	jobs, err := w.coord.Run(ctx, employers)
	if err != nil {
		return nil, summary, fmt.Errorf("coordinator: %w", err)
	}
	summary.Fetched = len(jobs)

	enriched := make([]model.EnrichedJob, 0, len(jobs))
	for _, job := range jobs {
		if term, ok := w.redFlags.Match(job); ok {
			log.Debug("dropping red-flagged posting", "apply_url", job.ApplyURL, "term", term)
			summary.Filtered++
			continue
		}
		enriched = append(enriched, skills.ForJob(job))
	}

	if w.sink != nil && len(enriched) > 0 {
		inserted, dupes, err := w.sink.SaveJobs(ctx, summary.RunID, enriched)
		summary.Inserted, summary.Duplicates = inserted, dupes
		if err != nil {
			summary.Duration = time.Since(summary.StartedAt)
			return enriched, summary, fmt.Errorf("sink: %w", err)
		}
	}

	summary.Duration = time.Since(summary.StartedAt)

	if w.notifier != nil {
		if err := w.notifier.PublishRun(ctx, summary); err != nil {
			log.Warn("publish run summary failed", "error", err)
		}
	}

	log.Info("ingest done",
		"fetched", summary.Fetched,
		"filtered", summary.Filtered,
		"inserted", summary.Inserted,
		"duplicates", summary.Duplicates,
		"duration", summary.Duration,
	)
	return enriched, summary, nil
}
