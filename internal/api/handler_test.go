package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/ats-ingest/internal/api"
	"jobmate/ats-ingest/internal/model"
	"jobmate/ats-ingest/internal/scraper"
)

type stubRunner struct {
	got  []model.Employer
	jobs []model.EnrichedJob
	err  error
}

func (s *stubRunner) Run(_ context.Context, employers []model.Employer) ([]model.EnrichedJob, scraper.RunSummary, error) {
	s.got = employers
	return s.jobs, scraper.RunSummary{RunID: "run-1", Employers: len(employers), Fetched: len(s.jobs)}, s.err
}

var configured = []model.Employer{{Label: "Acme", Platform: model.PlatformStructuredAPI, Identifier: "acme"}}

func source(context.Context) ([]model.Employer, error) { return configured, nil }

func newServer(t *testing.T, r api.Runner, src api.EmployerSource) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	api.NewHandler(r, src, "1.2.3", slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// ── /health ──────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	srv := newServer(t, nil, nil)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, map[string]string{"status": "ok", "service": "ats-ingest", "version": "1.2.3"}, body)
}

// ── /skills/extract ──────────────────────────────────────────────────────────

func TestExtractSkills(t *testing.T) {
	srv := newServer(t, nil, nil)

	resp, err := http.Post(srv.URL+"/skills/extract", "application/json",
		strings.NewReader(`{"text": "Python, React, PostgreSQL, AWS, Docker"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report model.SkillReport
	decode(t, resp, &report)
	assert.Equal(t, 5, report.TotalCount)
	assert.Equal(t, []string{"python"}, report.Categories["languages"])
	assert.Equal(t, []string{"aws", "docker"}, report.Categories["cloud"])
}

func TestExtractSkills_Errors(t *testing.T) {
	srv := newServer(t, nil, nil)

	resp, err := http.Post(srv.URL+"/skills/extract", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/skills/extract")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestExtractSkills_EmptyText(t *testing.T) {
	srv := newServer(t, nil, nil)

	resp, err := http.Post(srv.URL+"/skills/extract", "application/json", strings.NewReader(`{"text": ""}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	decode(t, resp, &raw)
	assert.JSONEq(t, `[]`, string(raw["skills"]))
	assert.JSONEq(t, `{}`, string(raw["categories"]))
	assert.JSONEq(t, `0`, string(raw["total_count"]))
}

// ── /sync ────────────────────────────────────────────────────────────────────

func TestSync_UsesConfiguredEmployers(t *testing.T) {
	r := &stubRunner{}
	srv := newServer(t, r, source)

	resp, err := http.Post(srv.URL+"/sync", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Summary scraper.RunSummary `json:"summary"`
		Jobs    []json.RawMessage  `json:"jobs"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "run-1", body.Summary.RunID)
	assert.Nil(t, body.Jobs)
	assert.Equal(t, configured, r.got)
}

func TestSync_BodyEmployersAndJobs(t *testing.T) {
	r := &stubRunner{jobs: []model.EnrichedJob{{Job: model.Job{Title: "SRE", ApplyURL: "https://x/1"}}}}
	srv := newServer(t, r, source)

	resp, err := http.Post(srv.URL+"/sync?jobs=true", "application/json", strings.NewReader(
		`{"employers":[{"label":"Netflix","platform":"secondary-api","identifier":"netflix"}]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Jobs []map[string]any `json:"jobs"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, "netflix", r.got[0].Identifier)
}

func TestSync_Errors(t *testing.T) {
	tests := []struct {
		name   string
		runner api.Runner
		src    api.EmployerSource
		body   string
		want   int
	}{
		{"no runner", nil, source, "", http.StatusServiceUnavailable},
		{"bad body", &stubRunner{}, source, "{", http.StatusBadRequest},
		{"unknown platform", &stubRunner{err: fmt.Errorf("coordinator: %w", scraper.ErrUnknownPlatform)}, source, "", http.StatusBadRequest},
		{"runner failure", &stubRunner{err: errors.New("sink down")}, source, "", http.StatusInternalServerError},
		{"loader failure", &stubRunner{}, func(context.Context) ([]model.Employer, error) { return nil, errors.New("io") }, "", http.StatusInternalServerError},
		{"no source", &stubRunner{}, nil, "", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.runner, tt.src)
			resp, err := http.Post(srv.URL+"/sync", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
