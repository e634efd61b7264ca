package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-url-shortener/internal/cache"
	"github.com/tbourn/go-url-shortener/internal/domain"
)

// DefaultFillTimeout bounds a background cache write.
const DefaultFillTimeout = time.Second

// Resolver maps (domain, code) to a long URL, consulting the cache first.
// Cache failures are logged and treated as misses; they never change the
// outcome of a lookup.
type Resolver struct {
	Domains DomainLookup
	Links   LinkLookup
	Cache   cache.Cache

	// TTL of filled entries; zero uses the backend default.
	TTL         time.Duration
	FillTimeout time.Duration
	Logger      *zerolog.Logger

	fills sync.WaitGroup
}

// NewResolver wires a Resolver. A nil cache disables caching.
func NewResolver(domains DomainLookup, links LinkLookup, c cache.Cache, ttl time.Duration) *Resolver {
	if c == nil {
		c = cache.Noop{}
	}
	return &Resolver{Domains: domains, Links: links, Cache: c, TTL: ttl, FillTimeout: DefaultFillTimeout}
}

func (r *Resolver) logger() *zerolog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return &log.Logger
}

// Resolve returns the long URL for code under domainName. Unknown domains
// and codes are NotFound. The domain's active flag is not consulted:
// deactivation stops new links, existing ones keep resolving.
func (r *Resolver) Resolve(ctx context.Context, domainName, code string) (string, error) {
	tr := otel.Tracer("services/Resolver")
	ctx, span := tr.Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("link.domain", domainName),
		attribute.String("link.code", code),
	))
	defer span.End()

	key := cache.Key(domainName, code)
	v, ok, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		resolverCache.WithLabelValues(cacheError).Inc()
		r.logger().Warn().Err(err).Str("cache", r.Cache.Name()).Str("key", key).Msg("cache get failed, falling back to store")
	case ok:
		resolverCache.WithLabelValues(cacheHit).Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return v, nil
	default:
		resolverCache.WithLabelValues(cacheMiss).Inc()
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	d, err := r.Domains.DomainByName(ctx, domainName)
	if err != nil {
		return "", notFoundAs(err, "short link not found")
	}
	l, err := r.Links.LinkByCode(ctx, d.ID, code)
	if err != nil {
		return "", notFoundAs(err, "short link not found")
	}

	r.fill(ctx, key, l.LongURL)
	return l.LongURL, nil
}

// Wait blocks until background cache fills have finished.
func (r *Resolver) Wait() { r.fills.Wait() }

// fill writes the mapping in the background, detached from the request's
// cancellation but bounded by FillTimeout.
func (r *Resolver) fill(ctx context.Context, key, longURL string) {
	timeout := r.FillTimeout
	if timeout <= 0 {
		timeout = DefaultFillTimeout
	}
	base := context.WithoutCancel(ctx)
	r.fills.Add(1)
	go func() {
		defer r.fills.Done()
		fctx, cancel := context.WithTimeout(base, timeout)
		defer cancel()
		if err := r.Cache.Set(fctx, key, longURL, r.TTL); err != nil {
			r.logger().Warn().Err(err).Str("key", key).Msg("cache fill failed")
		}
	}()
}

// notFoundAs replaces the message of a NotFound error so clients see one
// wording for both lookup steps. Other errors pass through.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound(msg)
	}
	return err
}
