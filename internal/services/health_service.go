package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tbourn/go-url-shortener/internal/cache"
)

// Health statuses.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// QueueState exposes what health needs from the click queue.
type QueueState interface {
	Closed() bool
	Len() int
	Cap() int
}

// Check is the result of one probe.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthReport aggregates all probes.
type HealthReport struct {
	Status  string           `json:"status"`
	Version string           `json:"version"`
	Checks  map[string]Check `json:"checks"`
}

// Healthy reports whether every check passed.
func (r HealthReport) Healthy() bool { return r.Status == StatusHealthy }

// HealthService probes the store, the click queue and the cache.
type HealthService struct {
	DB      Pinger
	Domains DomainLookup
	Queue   QueueState
	Cache   cache.Cache
	Version string
	Timeout time.Duration
}

// Check runs all probes. Each probe is bounded by Timeout.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	checks := map[string]Check{
		"database":    s.checkDatabase(ctx),
		"click_queue": s.checkQueue(),
		"cache":       s.checkCache(ctx),
	}
	status := StatusHealthy
	for _, c := range checks {
		if c.Status != StatusOK {
			status = StatusDegraded
		}
	}
	return HealthReport{Status: status, Version: s.Version, Checks: checks}
}

func (s *HealthService) checkDatabase(ctx context.Context) Check {
	if s.DB == nil {
		return Check{Status: StatusError, Message: "no database configured"}
	}
	if err := s.DB.Ping(ctx); err != nil {
		return Check{Status: StatusError, Message: "database unreachable"}
	}
	if s.Domains != nil {
		if d, err := s.Domains.DefaultDomain(ctx); err == nil {
			return Check{Status: StatusOK, Message: "connected, default domain: " + d.Name}
		}
		return Check{Status: StatusOK, Message: "connected, no default domain"}
	}
	return Check{Status: StatusOK, Message: "connected"}
}

func (s *HealthService) checkQueue() Check {
	if s.Queue == nil || s.Queue.Closed() {
		return Check{Status: StatusError, Message: "click queue is closed"}
	}
	return Check{Status: StatusOK, Message: fmt.Sprintf("depth %d/%d", s.Queue.Len(), s.Queue.Cap())}
}

func (s *HealthService) checkCache(ctx context.Context) Check {
	if s.Cache == nil {
		return Check{Status: StatusOK, Message: "disabled"}
	}
	if err := s.Cache.Ping(ctx); err != nil {
		return Check{Status: StatusError, Message: s.Cache.Name() + " unreachable"}
	}
	return Check{Status: StatusOK, Message: s.Cache.Name()}
}
