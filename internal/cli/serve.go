package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jobmate/ats-ingest/internal/api"
	"jobmate/ats-ingest/internal/cache"
	"jobmate/ats-ingest/internal/config"
	"jobmate/ats-ingest/internal/db"
	"jobmate/ats-ingest/internal/model"
	"jobmate/ats-ingest/internal/scheduler"
	"jobmate/ats-ingest/internal/store"
)

var serveNoCron bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the periodic ingest",
	Long: `Start the HTTP API and a cron schedule that ingests every configured
employer every SCRAPE_INTERVAL_HOURS hours. PostgreSQL persistence and the
Redis listing cache are enabled when DATABASE_URL and REDIS_URL are set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoCron, "no-cron", false, "serve the API without the periodic ingest")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.With("component", "serve")
	b := &batchRunner{cfg: cfg, log: logger}

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()

		jobs := store.NewJobStore(pool, logger)
		if err := jobs.EnsureSchema(ctx); err != nil {
			return err
		}
		b.sink = jobs
		log.Info("postgres connected")
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	if cfg.RedisURL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()

		listings := cache.New(cache.NewRedisKV(rdb), cfg.ListingCacheTTL, logger)
		b.listings = listings
		b.notifier = listings
		log.Info("redis connected", "listing_ttl", cfg.ListingCacheTTL)
	}

	employers := func(context.Context) ([]model.Employer, error) {
		return config.LoadEmployers(cfg.EmployersFile)
	}

	// ── Scheduler ────────────────────────────────────────────────────────────
	if !serveNoCron {
		sched := scheduler.New(b, employers, cfg.ScrapeIntervalHours, logger)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.NewHandler(b, employers, Version, logger).RegisterRoutes(mux)

	// /sync runs a whole batch inside the request.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown error", "error", err)
	}
	log.Info("stopped")
	return nil
}
