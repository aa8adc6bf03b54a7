// Package config loads and validates environment variables at startup.
// Fail-fast: an invalid value aborts the process before anything connects.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"jobmate/ats-ingest/internal/scraper"
)

// Config holds all runtime configuration for the ingest service.
type Config struct {
	Port                string
	DatabaseURL         string // empty disables persistence
	RedisURL            string // empty disables the listing cache and run events
	ScrapeIntervalHours int
	RequestTimeout      time.Duration
	FetchWorkers        int
	FetchRetries        uint64
	ListingCacheTTL     time.Duration // 0 disables the listing cache
	EmployersFile       string
	GreenhouseAPI       string
	LeverAPI            string
	BoardHostPattern    string // must contain {token}
	IncludeContent      bool
	RedFlags            []string
	LogFile             string
	LogLevel            slog.Level
}

// LoadDotEnv reads a .env file into the environment when present. Variables
// already set are not overridden.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	interval, err := positiveInt("SCRAPE_INTERVAL_HOURS", 6)
	if err != nil {
		return nil, err
	}
	timeout, err := positiveInt("REQUEST_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	workers, err := positiveInt("FETCH_WORKERS", 4)
	if err != nil {
		return nil, err
	}

	retries := uint64(0)
	if s := os.Getenv("FETCH_RETRIES"); s != "" {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("FETCH_RETRIES must be a non-negative integer, got %q", s)
		}
		retries = v
	}

	ttl := 0
	if s := os.Getenv("LISTING_CACHE_TTL_MINUTES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("LISTING_CACHE_TTL_MINUTES must be a non-negative integer, got %q", s)
		}
		ttl = v
	}

	includeContent := true
	if s := os.Getenv("GREENHOUSE_INCLUDE_CONTENT"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("GREENHOUSE_INCLUDE_CONTENT must be a boolean, got %q", s)
		}
		includeContent = v
	}

	hostPattern := getenv("BOARD_HOST_PATTERN", scraper.DefaultBoardHostPattern)
	if !strings.Contains(hostPattern, "{token}") {
		return nil, fmt.Errorf("BOARD_HOST_PATTERN must contain {token}, got %q", hostPattern)
	}

	level, err := parseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                getenv("INGEST_PORT", "8083"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		ScrapeIntervalHours: interval,
		RequestTimeout:      time.Duration(timeout) * time.Second,
		FetchWorkers:        workers,
		FetchRetries:        retries,
		ListingCacheTTL:     time.Duration(ttl) * time.Minute,
		EmployersFile:       getenv("EMPLOYERS_FILE", "employers.yaml"),
		GreenhouseAPI:       getenv("GREENHOUSE_API_URL", scraper.DefaultGreenhouseAPI),
		LeverAPI:            getenv("LEVER_API_URL", scraper.DefaultLeverAPI),
		BoardHostPattern:    hostPattern,
		IncludeContent:      includeContent,
		RedFlags:            splitList(os.Getenv("RED_FLAGS")),
		LogFile:             getenv("LOG_FILE", "ats-ingest.log"),
		LogLevel:            level,
	}, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func positiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
