// Package api implements the HTTP surface of the ingest service.
//
// Routes:
//
//	GET  /health          → liveness and version
//	POST /skills/extract  → skill report for {"text": "..."}
//	POST /sync            → run one ingest batch now
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"jobmate/ats-ingest/internal/model"
	"jobmate/ats-ingest/internal/scraper"
	"jobmate/ats-ingest/internal/skills"
)

// maxBody caps request bodies.
const maxBody = 1 << 20

// Runner executes one ingest batch.
type Runner interface {
	Run(ctx context.Context, employers []model.Employer) ([]model.EnrichedJob, scraper.RunSummary, error)
}

// EmployerSource returns the configured employers.
type EmployerSource func(ctx context.Context) ([]model.Employer, error)

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies.
type Handler struct {
	runner    Runner
	employers EmployerSource
	version   string
	log       *slog.Logger
}

// NewHandler returns a configured Handler. runner may be nil, in which case
// /sync answers 503.
func NewHandler(runner Runner, employers EmployerSource, version string, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		runner:    runner,
		employers: employers,
		version:   version,
		log:       log.With("component", "api"),
	}
}

// RegisterRoutes mounts all ingest routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.health)
	mux.HandleFunc("/skills/extract", h.extractSkills)
	mux.HandleFunc("/sync", h.sync)
}

// ─── Individual handlers ─────────────────────────────────────────────────────

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, map[string]string{
		"status":  "ok",
		"service": "ats-ingest",
		"version": h.version,
	})
}

func (h *Handler) extractSkills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&body); err != nil || body.Text == nil {
		jsonError(w, `body must be {"text": "..."}`, http.StatusBadRequest)
		return
	}

	jsonOK(w, skills.ExtractFromJob(*body.Text))
}

type syncResponse struct {
	Summary scraper.RunSummary  `json:"summary"`
	Jobs    []model.EnrichedJob `json:"jobs,omitempty"`
}

// sync runs a batch over the employers in the request body, or over the
// configured employers when the body is empty. ?jobs=true includes the
// enriched postings in the response.
func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.runner == nil {
		jsonError(w, "ingest is not configured", http.StatusServiceUnavailable)
		return
	}

	var body struct {
		Employers []model.Employer `json:"employers"`
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	employers := body.Employers
	if len(employers) == 0 {
		if h.employers == nil {
			jsonError(w, "no employers configured", http.StatusServiceUnavailable)
			return
		}
		employers, err = h.employers(r.Context())
		if err != nil {
			h.log.Error("load employers", "error", err)
			jsonError(w, "could not load employers", http.StatusInternalServerError)
			return
		}
	}

	jobs, summary, err := h.runner.Run(r.Context(), employers)
	switch {
	case errors.Is(err, scraper.ErrUnknownPlatform):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.log.Error("sync failed", "run", summary.RunID, "error", err)
		jsonError(w, "ingest failed", http.StatusInternalServerError)
		return
	}

	resp := syncResponse{Summary: summary}
	if r.URL.Query().Get("jobs") == "true" {
		resp.Jobs = jobs
	}
	jsonOK(w, resp)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
