package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache backed by go-cache. Entries are not shared
// between instances.
type Memory struct {
	c   *gocache.Cache
	ttl time.Duration
}

// NewMemory builds a Memory cache whose entries expire after ttl by default.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Memory{c: gocache.New(ttl, 2*ttl), ttl: ttl}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, value, ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }
func (m *Memory) Name() string               { return "memory" }

// Close drops all entries.
func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
