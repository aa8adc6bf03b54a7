package cli

import (
	"context"
	"log/slog"

	"jobmate/ats-ingest/internal/cache"
	"jobmate/ats-ingest/internal/config"
	"jobmate/ats-ingest/internal/model"
	"jobmate/ats-ingest/internal/scraper"
)

// batchRunner builds a fresh HTTP client and adapter set for every batch and
// releases the client's idle connections when the batch ends.
type batchRunner struct {
	cfg      *config.Config
	listings *cache.ListingCache // optional
	sink     scraper.Sink        // optional
	notifier scraper.Notifier    // optional
	log      *slog.Logger
}

func (b *batchRunner) settings() scraper.Settings {
	return scraper.Settings{
		GreenhouseAPI:  b.cfg.GreenhouseAPI,
		LeverAPI:       b.cfg.LeverAPI,
		BoardHost:      b.cfg.BoardHostPattern,
		IncludeContent: b.cfg.IncludeContent,
		Retries:        b.cfg.FetchRetries,
	}
}

// coordinator returns a coordinator bound to a new client and the func that
// closes it.
func (b *batchRunner) coordinator() (*scraper.Coordinator, func()) {
	client := scraper.NewHTTPClient(b.cfg.RequestTimeout)
	adapters := scraper.DefaultAdapters(b.settings(), client, b.log)
	if b.listings != nil {
		adapters = b.listings.WrapAll(adapters)
	}
	return scraper.NewCoordinator(b.log, b.cfg.FetchWorkers, adapters...), client.CloseIdleConnections
}

// Fetch acquires records without enrichment, filtering or persistence.
func (b *batchRunner) Fetch(ctx context.Context, employers []model.Employer) ([]model.Job, error) {
	coord, done := b.coordinator()
	defer done()
	return coord.Run(ctx, employers)
}

// Run executes a full ingest cycle through a scraper.Worker.
func (b *batchRunner) Run(ctx context.Context, employers []model.Employer) ([]model.EnrichedJob, scraper.RunSummary, error) {
	coord, done := b.coordinator()
	defer done()
	w := scraper.NewWorker(coord, b.sink, b.notifier, b.cfg.RedFlags, b.log)
	return w.Run(ctx, employers)
}
