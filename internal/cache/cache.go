// Package cache provides the read-through cache used on the redirect path.
//
// Three backends implement Cache: Redis for shared deployments, an in-process
// store for single instances, and Noop when caching is disabled. The backend
// is chosen once at startup; callers only see hit, miss or error.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tbourn/go-url-shortener/internal/config"
)

// Cache is a string key/value store with per-entry TTL.
type Cache interface {
	// Get returns the cached value and whether it was present. A backend
	// failure is reported as an error, never as a miss.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key. A non-positive ttl uses the backend default.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	// Name identifies the backend in logs and health output.
	Name() string
	Close() error
}

// Key builds the cache key for a short code within a domain.
func Key(domainName, code string) string {
	return domainName + ":" + code
}

// New builds the backend selected by cfg.Backend.
func New(cfg config.CacheConfig) (Cache, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "none", "off", "disabled":
		return Noop{}, nil
	case "memory":
		return NewMemory(cfg.TTL), nil
	case "redis":
		return NewRedisFromURL(cfg.RedisURL, cfg.TTL, cfg.OpTimeout)
	default:
		return nil, fmt.Errorf("unsupported CACHE_BACKEND %q", cfg.Backend)
	}
}
