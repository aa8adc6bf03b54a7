package scheduler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/ats-ingest/internal/model"
	"jobmate/ats-ingest/internal/scheduler"
	"jobmate/ats-ingest/internal/scraper"
)

type stubRunner struct {
	calls   atomic.Int32
	block   chan struct{}
	entered chan struct{}
	got     []model.Employer
}

func (r *stubRunner) Run(_ context.Context, employers []model.Employer) ([]model.EnrichedJob, scraper.RunSummary, error) {
	r.calls.Add(1)
	r.got = employers
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.block != nil {
		<-r.block
	}
	return nil, scraper.RunSummary{RunID: "test"}, nil
}

func staticEmployers(es ...model.Employer) scheduler.EmployerSource {
	return func(context.Context) ([]model.Employer, error) { return es, nil }
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

var acme = model.Employer{Label: "Acme", Platform: model.PlatformStructuredAPI, Identifier: "acme"}

func TestNew_CronExpression(t *testing.T) {
	s := scheduler.New(&stubRunner{}, staticEmployers(), 6, quiet())
	assert.Equal(t, "@every 6h", s.Spec())
}

func TestRunOnce_PassesEmployers(t *testing.T) {
	r := &stubRunner{}
	s := scheduler.New(r, staticEmployers(acme), 1, quiet())

	assert.True(t, s.RunOnce(context.Background()))
	assert.EqualValues(t, 1, r.calls.Load())
	assert.Equal(t, []model.Employer{acme}, r.got)
}

func TestRunOnce_NoEmployers(t *testing.T) {
	r := &stubRunner{}
	s := scheduler.New(r, staticEmployers(), 1, quiet())

	assert.False(t, s.RunOnce(context.Background()))
	assert.Zero(t, r.calls.Load())
}

func TestRunOnce_LoaderError(t *testing.T) {
	r := &stubRunner{}
	failing := func(context.Context) ([]model.Employer, error) { return nil, errors.New("bad yaml") }
	s := scheduler.New(r, failing, 1, quiet())

	assert.False(t, s.RunOnce(context.Background()))
	assert.Zero(t, r.calls.Load())
}

func TestRunOnce_SkipsOverlappingTick(t *testing.T) {
	r := &stubRunner{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	s := scheduler.New(r, staticEmployers(acme), 1, quiet())

	done := make(chan bool)
	go func() { done <- s.RunOnce(context.Background()) }()

	select {
	case <-r.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first batch never started")
	}

	assert.False(t, s.RunOnce(context.Background()))
	close(r.block)
	assert.True(t, <-done)
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestStart_RunsImmediately(t *testing.T) {
	r := &stubRunner{entered: make(chan struct{}, 1)}
	s := scheduler.New(r, staticEmployers(acme), 24, quiet())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-r.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("startup batch did not run")
	}
}

func TestStop_WaitsForStartupBatch(t *testing.T) {
	r := &stubRunner{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	s := scheduler.New(r, staticEmployers(acme), 24, quiet())
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-r.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("startup batch did not run")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the startup batch was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(r.block)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the batch finished")
	}
}
