package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"jobmate/ats-ingest/internal/model"
)

// DefaultWorkers bounds concurrent employer fetches within one batch.
const DefaultWorkers = 4

// Coordinator dispatches employers to adapters by platform and aggregates
// the results of a batch.
type Coordinator struct {
	adapters map[model.Platform]Adapter
	// fallback lists, per platform, the adapter tried when the first one
	// fails. Only structured-api has one.
	fallback map[model.Platform]model.Platform
	workers  int
	log      *slog.Logger
}

// NewCoordinator registers adapters by their Platform. A later adapter for
// the same platform replaces an earlier one.
func NewCoordinator(log *slog.Logger, workers int, adapters ...Adapter) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	if workers < 1 {
		workers = DefaultWorkers
	}
	c := &Coordinator{
		adapters: make(map[model.Platform]Adapter, len(adapters)),
		fallback: map[model.Platform]model.Platform{
			model.PlatformStructuredAPI: model.PlatformHTMLFallback,
		},
		workers: workers,
		log:     log.With("component", "coordinator"),
	}
	for _, a := range adapters {
		c.adapters[a.Platform()] = a
	}
	return c
}

// FetchEmployer runs the employer's declared adapter, then its fallback if
// the first attempt failed. Fetch failures are absorbed; the only error is
// ErrUnknownPlatform.
func (c *Coordinator) FetchEmployer(ctx context.Context, e model.Employer) ([]model.Job, error) {
	adapter, err := c.adapterFor(e)
	if err != nil {
		return nil, err
	}

	out := adapter.Fetch(ctx, e.Identifier)
	if !out.Failed() {
		return out.Jobs, nil
	}

	next, ok := c.fallback[e.Platform]
	if !ok {
		return nil, nil
	}
	fb, ok := c.adapters[next]
	if !ok {
		return nil, nil
	}

	c.log.Info("falling back",
		"employer", e.Label,
		"from", e.Platform,
		"to", next,
		"reason", out.Err,
	)
	out = fb.Fetch(ctx, e.Identifier)
	if out.Failed() {
		return nil, nil
	}
	return out.Jobs, nil
}

// Run fetches every employer with at most c.workers in flight and returns the
// concatenated records in input order. An employer whose fetch fails adds
// nothing; the batch still succeeds. Platforms are validated before any
// request is made.
func (c *Coordinator) Run(ctx context.Context, employers []model.Employer) ([]model.Job, error) {
	for _, e := range employers {
		if _, err := c.adapterFor(e); err != nil {
			return nil, err
		}
	}

	results := make([][]model.Job, len(employers))

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, e := range employers {
		g.Go(func() error {
			jobs, err := c.FetchEmployer(ctx, e)
			if err != nil {
				return err
			}
			results[i] = jobs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	all := make([]model.Job, 0, total)
	for _, r := range results {
		all = append(all, r...)
	}

	c.log.Info("batch complete", "employers", len(employers), "jobs", len(all))
	return all, nil
}

func (c *Coordinator) adapterFor(e model.Employer) (Adapter, error) {
	a, ok := c.adapters[e.Platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q (employer %q)", ErrUnknownPlatform, e.Platform, e.Label)
	}
	return a, nil
}
