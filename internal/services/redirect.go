package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// LinkResolver resolves a (domain, code) pair to its long URL.
type LinkResolver interface {
	Resolve(ctx context.Context, domainName, code string) (string, error)
}

// RedirectRequest carries what the redirect path knows about a click.
type RedirectRequest struct {
	Host      string
	Code      string
	ClientIP  string
	UserAgent string
	Referer   string
}

// Redirector resolves short links and hands click events to the queue.
type Redirector struct {
	Resolver LinkResolver
	Clicks   ClickSink
}

// NewRedirector wires a Redirector.
func NewRedirector(r LinkResolver, clicks ClickSink) *Redirector {
	return &Redirector{Resolver: r, Clicks: clicks}
}

// Handle returns the redirect target for req. A click event is offered
// whenever resolution succeeds; whether the queue accepted it never affects
// the result.
func (s *Redirector) Handle(ctx context.Context, req RedirectRequest) (string, error) {
	tr := otel.Tracer("services/Redirector")
	ctx, span := tr.Start(ctx, "Handle", trace.WithAttributes(
		attribute.String("http.host", req.Host),
		attribute.String("link.code", req.Code),
	))
	defer span.End()

	host, err := NormalizeHost(req.Host)
	if err != nil {
		// An unusable Host header cannot name a domain.
		return "", domain.NotFound("short link not found")
	}
	if req.Code == "" {
		return "", domain.NotFound("short link not found")
	}

	target, err := s.Resolver.Resolve(ctx, host, req.Code)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			span.RecordError(err)
		}
		return "", err
	}

	if s.Clicks != nil {
		accepted := s.Clicks.Offer(domain.NewClickEvent(host, req.Code, req.ClientIP, req.UserAgent, req.Referer))
		span.SetAttributes(attribute.Bool("click.queued", accepted))
	}
	return target, nil
}
