// Package scraper implements ATS adapters, the acquisition coordinator and
// the ingest worker.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"jobmate/ats-ingest/internal/model"
)

// ErrUnknownPlatform is returned when an employer names a platform with no
// registered adapter. It indicates a configuration defect.
var ErrUnknownPlatform = errors.New("no adapter registered for platform")

// Adapter fetches one employer's open postings from a single ATS shape.
//
// Fetch never returns a Go error: transport and parse failures are logged
// and recorded in Outcome.Err with Jobs left empty.
type Adapter interface {
	Platform() model.Platform
	Fetch(ctx context.Context, identifier string) Outcome
}

// Outcome is the result of one adapter call. Err is informational; the
// coordinator uses it to decide on fallback, nothing propagates it further.
type Outcome struct {
	Jobs []model.Job
	Err  error
}

// Failed reports whether the fetch hit a transport or parse failure, as
// opposed to a board that simply has no postings.
func (o Outcome) Failed() bool { return o.Err != nil }

// Options carries the dependencies shared by every adapter in a batch.
type Options struct {
	Client  *http.Client // shared connection pool
	Logger  *slog.Logger
	Retries uint64 // extra attempts on transport failure; 0 disables retry
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func failed(log *slog.Logger, platform model.Platform, identifier string, err error) Outcome {
	log.Warn("fetch failed",
		"platform", platform,
		"employer", identifier,
		"error", err,
	)
	return Outcome{Err: err}
}
