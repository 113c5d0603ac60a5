// Package cache stores serializable values under string keys. Backends are
// in-process (go-cache), Redis, or a no-op.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get loads key into dst and reports whether it was present.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	// Set stores value; ttl <= 0 uses the backend default.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Name() string
}

// Noop never stores anything; every Get is a miss.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (Noop) Delete(context.Context, ...string) error { return nil }

func (Noop) Name() string { return "none" }
