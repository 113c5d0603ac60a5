package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/insurance-crm/pkg/metrics"
)

// Memory keeps values JSON-encoded, like Redis, so every Get decodes a
// private copy and callers never share cached slices or pointers.
type Memory struct {
	c       *gocache.Cache
	metrics *metrics.Metrics
}

func NewMemory(defaultTTL time.Duration, m *metrics.Metrics) *Memory {
	return &Memory{
		c:       gocache.New(defaultTTL, 2*defaultTTL),
		metrics: m,
	}
}

func (m *Memory) Name() string {
	return "memory"
}

func (m *Memory) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	start := time.Now()
	v, ok := m.c.Get(key)
	if !ok {
		m.metrics.ObserveCache(m.Name(), "get", "miss", start)
		return false, nil
	}
	if err := json.Unmarshal(v.([]byte), dst); err != nil {
		m.metrics.ObserveCache(m.Name(), "get", "error", start)
		return false, fmt.Errorf("memory decode %q: %w", key, err)
	}
	m.metrics.ObserveCache(m.Name(), "get", "hit", start)
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory encode %q: %w", key, err)
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, payload, ttl)
	m.metrics.ObserveCache(m.Name(), "set", "set", start)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	start := time.Now()
	for _, k := range keys {
		m.c.Delete(k)
	}
	m.metrics.ObserveCache(m.Name(), "delete", "delete", start)
	return nil
}
