// Package cache keeps recent adapter outcomes in Redis and announces
// finished ingest runs on a Redis channel.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmate/ats-ingest/internal/model"
	"jobmate/ats-ingest/internal/scraper"
)

const (
	keyPrefix = "ats-ingest:listing:"

	// RunChannel receives one message per finished ingest run.
	RunChannel = "EVENT_INGEST_RUN"
)

// errMiss is returned by a KV when the key does not exist.
var errMiss = errors.New("cache miss")

// KV is the subset of Redis the cache needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Publish(ctx context.Context, channel string, payload []byte) error
}

// redisKV adapts a go-redis client to KV.
type redisKV struct {
	rdb *redis.Client
}

// NewRedisKV wraps rdb.
func NewRedisKV(rdb *redis.Client) KV {
	return redisKV{rdb: rdb}
}

func (r redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errMiss
	}
	return b, err
}

func (r redisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r redisKV) Publish(ctx context.Context, channel string, payload []byte) error {
	return r.rdb.Publish(ctx, channel, payload).Err()
}

// ListingCache stores successful adapter outcomes for ttl.
type ListingCache struct {
	kv  KV
	ttl time.Duration
	log *slog.Logger
}

// New constructs a ListingCache.
func New(kv KV, ttl time.Duration, log *slog.Logger) *ListingCache {
	if log == nil {
		log = slog.Default()
	}
	return &ListingCache{kv: kv, ttl: ttl, log: log.With("component", "cache")}
}

// Wrap returns an Adapter that consults the cache before calling a.
// A non-positive ttl disables caching and returns a unchanged.
func (c *ListingCache) Wrap(a scraper.Adapter) scraper.Adapter {
	if c.ttl <= 0 {
		return a
	}
	return &cachedAdapter{next: a, cache: c}
}

// WrapAll applies Wrap to every adapter.
func (c *ListingCache) WrapAll(adapters []scraper.Adapter) []scraper.Adapter {
	out := make([]scraper.Adapter, len(adapters))
	for i, a := range adapters {
		out[i] = c.Wrap(a)
	}
	return out
}

// PublishRun implements scraper.Notifier.
func (c *ListingCache) PublishRun(ctx context.Context, s scraper.RunSummary) error {
	payload, err := json.Marshal(map[string]any{
		"type":    RunChannel,
		"summary": s,
	})
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	if err := c.kv.Publish(ctx, RunChannel, payload); err != nil {
		return fmt.Errorf("publish %s: %w", RunChannel, err)
	}
	return nil
}

// Key returns the cache key for one employer listing.
func Key(p model.Platform, identifier string) string {
	return keyPrefix + string(p) + ":" + identifier
}

type cachedAdapter struct {
	next  scraper.Adapter
	cache *ListingCache
}

func (a *cachedAdapter) Platform() model.Platform { return a.next.Platform() }

func (a *cachedAdapter) Fetch(ctx context.Context, identifier string) scraper.Outcome {
	c := a.cache
	key := Key(a.next.Platform(), identifier)

	raw, err := c.kv.Get(ctx, key)
	switch {
	case err == nil:
		var jobs []model.Job
		if err := json.Unmarshal(raw, &jobs); err == nil {
			c.log.Debug("listing cache hit", "key", key, "jobs", len(jobs))
			return scraper.Outcome{Jobs: jobs}
		}
		c.log.Warn("discarding corrupt cache entry", "key", key)
	case !errors.Is(err, errMiss):
		c.log.Warn("listing cache read failed", "key", key, "error", err)
	}

	out := a.next.Fetch(ctx, identifier)
	if out.Failed() {
		return out
	}

	jobs := out.Jobs
	if jobs == nil {
		jobs = []model.Job{}
	}
	payload, err := json.Marshal(jobs)
	if err != nil {
		c.log.Warn("listing cache encode failed", "key", key, "error", err)
		return out
	}
	if err := c.kv.Set(ctx, key, payload, c.ttl); err != nil {
		c.log.Warn("listing cache write failed", "key", key, "error", err)
	}
	return out
}
