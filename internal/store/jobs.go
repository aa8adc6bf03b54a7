// Package store persists ingested postings in PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/ats-ingest/internal/model"
)

// ErrNoPool is returned when a JobStore is used without a connection pool.
var ErrNoPool = errors.New("store: no postgres pool")

const schema = `
CREATE TABLE IF NOT EXISTS job_postings (
	id              BIGSERIAL PRIMARY KEY,
	company         TEXT        NOT NULL,
	apply_url       TEXT        NOT NULL,
	source_platform TEXT        NOT NULL,
	title           TEXT        NOT NULL DEFAULT '',
	raw_data        JSONB       NOT NULL,
	skills          JSONB       NOT NULL,
	run_id          TEXT        NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (company, apply_url)
)`

// JobStore writes enriched postings, one row per (company, apply_url).
type JobStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewJobStore constructs a JobStore.
func NewJobStore(pool *pgxpool.Pool, log *slog.Logger) *JobStore {
	if log == nil {
		log = slog.Default()
	}
	return &JobStore{pool: pool, log: log.With("component", "store")}
}

// EnsureSchema creates the job_postings table when missing.
func (s *JobStore) EnsureSchema(ctx context.Context) error {
	if s.pool == nil {
		return ErrNoPool
	}
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create job_postings: %w", err)
	}
	return nil
}

// SaveJobs inserts postings not seen before. Existing (company, apply_url)
// rows, and repeats within jobs, are left untouched and counted as
// duplicates. A failing row is logged
// and skipped; the error is only returned when the pool is missing or the
// context is done.
func (s *JobStore) SaveJobs(ctx context.Context, runID string, jobs []model.EnrichedJob) (inserted, duplicates int, err error) {
	if s.pool == nil {
		return 0, 0, ErrNoPool
	}

	seen := make(map[string]struct{}, len(jobs))
	for _, ej := range jobs {
		if err := ctx.Err(); err != nil {
			return inserted, duplicates, err
		}

		key := ej.Job.DedupKey()
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}

		rawJob, err := json.Marshal(ej.Job)
		if err != nil {
			s.log.Error("marshal job", "error", err, "apply_url", ej.Job.ApplyURL)
			continue
		}
		rawSkills, err := json.Marshal(ej.Skills)
		if err != nil {
			s.log.Error("marshal skills", "error", err, "apply_url", ej.Job.ApplyURL)
			continue
		}

		tag, err := s.pool.Exec(ctx,
			`INSERT INTO job_postings (company, apply_url, source_platform, title, raw_data, skills, run_id)
			 VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7)
			 ON CONFLICT (company, apply_url) DO NOTHING`,
			ej.Job.Company, ej.Job.ApplyURL, string(ej.Job.SourcePlatform), ej.Job.Title,
			string(rawJob), string(rawSkills), runID,
		)
		if err != nil {
			s.log.Error("insert job", "error", err, "apply_url", ej.Job.ApplyURL)
			continue
		}

		if tag.RowsAffected() == 0 {
			duplicates++
		} else {
			inserted++
		}
	}

	return inserted, duplicates, nil
}

// CountByPlatform reports how many stored postings each adapter produced.
func (s *JobStore) CountByPlatform(ctx context.Context) (map[model.Platform]int, error) {
	if s.pool == nil {
		return nil, ErrNoPool
	}
	rows, err := s.pool.Query(ctx,
		`SELECT source_platform, count(*) FROM job_postings GROUP BY source_platform`)
	if err != nil {
		return nil, fmt.Errorf("count by platform: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Platform]int)
	for rows.Next() {
		var (
			platform string
			n        int
		)
		if err := rows.Scan(&platform, &n); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		counts[model.Platform(platform)] = n
	}
	return counts, rows.Err()
}
