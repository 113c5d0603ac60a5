package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/insurance-crm/pkg/circuitbreaker"
	"github.com/jwalitptl/insurance-crm/pkg/metrics"
)

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
}

// NewRedisClient parses the URL, applies pool settings and pings the server.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Configure connection pooling
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Redis stores JSON-encoded values. Every call goes through a circuit
// breaker so a dead server fails fast.
type Redis struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	cb         *circuitbreaker.CircuitBreaker
	metrics    *metrics.Metrics
}

func NewRedis(client *redis.Client, prefix string, defaultTTL time.Duration, m *metrics.Metrics) *Redis {
	return &Redis{
		client:     client,
		prefix:     prefix,
		defaultTTL: defaultTTL,
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "redis-cache",
			MaxFailures: 5,
			Timeout:     10 * time.Second,
		}),
		metrics: m,
	}
}

func (r *Redis) Name() string {
	return "redis"
}

func (r *Redis) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	start := time.Now()
	var raw []byte
	err := r.cb.Execute(func() error {
		b, err := r.client.Get(ctx, r.key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		raw = b
		return err
	})
	if err != nil {
		r.metrics.ObserveCache(r.Name(), "get", "error", start)
		return false, fmt.Errorf("redis get %q: %w", key, err)
	}
	if raw == nil {
		r.metrics.ObserveCache(r.Name(), "get", "miss", start)
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		r.metrics.ObserveCache(r.Name(), "get", "error", start)
		return false, fmt.Errorf("redis decode %q: %w", key, err)
	}
	r.metrics.ObserveCache(r.Name(), "get", "hit", start)
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis encode %q: %w", key, err)
	}
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	err = r.cb.Execute(func() error {
		return r.client.Set(ctx, r.key(key), payload, ttl).Err()
	})
	if err != nil {
		r.metrics.ObserveCache(r.Name(), "set", "error", start)
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	r.metrics.ObserveCache(r.Name(), "set", "set", start)
	return nil
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	start := time.Now()
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	err := r.cb.Execute(func() error {
		return r.client.Del(ctx, full...).Err()
	})
	if err != nil {
		r.metrics.ObserveCache(r.Name(), "delete", "error", start)
		return fmt.Errorf("redis delete: %w", err)
	}
	r.metrics.ObserveCache(r.Name(), "delete", "delete", start)
	return nil
}
