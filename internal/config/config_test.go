package config_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/ats-ingest/internal/config"
	"jobmate/ats-ingest/internal/model"
)

var allVars = []string{
	"INGEST_PORT", "DATABASE_URL", "REDIS_URL", "SCRAPE_INTERVAL_HOURS",
	"REQUEST_TIMEOUT_SECONDS", "FETCH_WORKERS", "FETCH_RETRIES",
	"LISTING_CACHE_TTL_MINUTES", "EMPLOYERS_FILE", "GREENHOUSE_API_URL",
	"LEVER_API_URL", "BOARD_HOST_PATTERN", "GREENHOUSE_INCLUDE_CONTENT",
	"RED_FLAGS", "LOG_FILE", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8083", cfg.Port)
	assert.Equal(t, 6, cfg.ScrapeIntervalHours)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 4, cfg.FetchWorkers)
	assert.Zero(t, cfg.FetchRetries)
	assert.Zero(t, cfg.ListingCacheTTL)
	assert.Equal(t, "employers.yaml", cfg.EmployersFile)
	assert.Equal(t, "{token}.greenhouse.io", cfg.BoardHostPattern)
	assert.True(t, cfg.IncludeContent)
	assert.Empty(t, cfg.RedFlags)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("INGEST_PORT", "9000")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("FETCH_WORKERS", "8")
	t.Setenv("FETCH_RETRIES", "2")
	t.Setenv("LISTING_CACHE_TTL_MINUTES", "15")
	t.Setenv("RED_FLAGS", " unpaid , ,commission only")
	t.Setenv("GREENHOUSE_INCLUDE_CONTENT", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 8, cfg.FetchWorkers)
	assert.EqualValues(t, 2, cfg.FetchRetries)
	assert.Equal(t, 15*time.Minute, cfg.ListingCacheTTL)
	assert.Equal(t, []string{"unpaid", "commission only"}, cfg.RedFlags)
	assert.False(t, cfg.IncludeContent)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"SCRAPE_INTERVAL_HOURS":      "0",
		"REQUEST_TIMEOUT_SECONDS":    "soon",
		"FETCH_WORKERS":              "-1",
		"FETCH_RETRIES":              "-1",
		"LISTING_CACHE_TTL_MINUTES":  "x",
		"BOARD_HOST_PATTERN":         "%s.greenhouse.io",
		"GREENHOUSE_INCLUDE_CONTENT": "maybe",
		"LOG_LEVEL":                  "loud",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FETCH_WORKERS=2\n"), 0o600))

	// godotenv never overrides a set variable; unset it so the file applies.
	require.NoError(t, os.Unsetenv("FETCH_WORKERS"))
	require.NoError(t, config.LoadDotEnv(path))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.FetchWorkers)

	assert.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env")))
}

// ── LoadEmployers ────────────────────────────────────────────────────────────

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadEmployers(t *testing.T) {
	path := writeFile(t, `
employers:
  - label: Airbnb
    platform: structured-api
    identifier: airbnb
  - label: Netflix
    platform: secondary-api
    identifier: netflix
`)
	got, err := config.LoadEmployers(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Employer{
		{Label: "Airbnb", Platform: model.PlatformStructuredAPI, Identifier: "airbnb"},
		{Label: "Netflix", Platform: model.PlatformSecondaryAPI, Identifier: "netflix"},
	}, got)
}

func TestLoadEmployers_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown platform", "employers:\n  - {label: X, platform: workday, identifier: x}\n", "workday"},
		{"missing identifier", "employers:\n  - {label: X, platform: structured-api}\n", "identifier"},
		{"bad yaml", "employers: [", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadEmployers(writeFile(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := config.LoadEmployers(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// ── Logging ──────────────────────────────────────────────────────────────────

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	log := config.SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	log.Debug("hidden")
	log.Info("fetched", "jobs", 3)

	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "msg=fetched")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(file.String())), &rec))
	assert.Equal(t, "fetched", rec["msg"])
	assert.Equal(t, "ats-ingest", rec["service"])
	assert.EqualValues(t, 3, rec["jobs"])
}

func TestSetupLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.log")
	log, cleanup := config.SetupLogger(path, slog.LevelInfo)
	log.Info("hello")
	require.NoError(t, cleanup())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"hello"`)
}
