package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// DefaultMaxBatch caps a shorten request.
const DefaultMaxBatch = 100

// ShortenItem is one URL to shorten.
type ShortenItem struct {
	URL        string
	Domain     string
	CustomCode string
}

// ShortenResult is the outcome of one item. Err is nil on success.
type ShortenResult struct {
	LongURL  string
	Code     string
	ShortURL string
	Domain   string
	Err      error
}

// BatchSummary counts batch outcomes.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// LinkService creates short links. Shortening is idempotent per domain and
// normalized URL.
type LinkService struct {
	Domains DomainLookup
	Links   LinkStore
	Alloc   *Allocator

	// Scheme prefixes built short URLs.
	Scheme   string
	MaxBatch int
	Logger   *zerolog.Logger
}

// NewLinkService wires a LinkService with the default allocator.
func NewLinkService(domains DomainLookup, links LinkStore, scheme string, maxBatch int) *LinkService {
	if scheme == "" {
		scheme = "https"
	}
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	return &LinkService{
		Domains:  domains,
		Links:    links,
		Alloc:    NewAllocator(links),
		Scheme:   scheme,
		MaxBatch: maxBatch,
	}
}

// ShortURL renders the public short URL of code under domainName.
func (s *LinkService) ShortURL(domainName, code string) string {
	return fmt.Sprintf("%s://%s/%s", s.Scheme, domainName, code)
}

// ShortenBatch processes every item independently. The returned error is
// non-nil only when the batch itself is unacceptable.
func (s *LinkService) ShortenBatch(ctx context.Context, items []ShortenItem) ([]ShortenResult, BatchSummary, error) {
	tr := otel.Tracer("services/LinkService")
	ctx, span := tr.Start(ctx, "ShortenBatch", trace.WithAttributes(attribute.Int("batch.size", len(items))))
	defer span.End()

	if len(items) == 0 {
		return nil, BatchSummary{}, domain.Validation("urls must contain at least one item")
	}
	if len(items) > s.MaxBatch {
		return nil, BatchSummary{}, domain.Validation(fmt.Sprintf("too many urls in batch: %d (max %d)", len(items), s.MaxBatch))
	}

	results := make([]ShortenResult, 0, len(items))
	sum := BatchSummary{Total: len(items)}
	for _, it := range items {
		res, err := s.Shorten(ctx, it)
		if err != nil {
			sum.Failed++
			shortenItems.WithLabelValues(domain.Code(err)).Inc()
			if domain.Code(err) == domain.CodeInternal {
				s.logger().Error().Err(err).Str("url", it.URL).Msg("shorten item failed")
			}
			results = append(results, ShortenResult{LongURL: it.URL, Err: err})
			continue
		}
		sum.Successful++
		shortenItems.WithLabelValues("ok").Inc()
		results = append(results, *res)
	}
	span.SetAttributes(attribute.Int("batch.failed", sum.Failed))
	return results, sum, nil
}

// Shorten creates or returns the link for one item.
func (s *LinkService) Shorten(ctx context.Context, it ShortenItem) (*ShortenResult, error) {
	longURL, err := NormalizeURL(it.URL)
	if err != nil {
		return nil, err
	}
	custom := strings.TrimSpace(it.CustomCode)
	if custom != "" {
		if err := s.Alloc.ValidateCustomCode(custom); err != nil {
			return nil, err
		}
	}

	d, err := s.targetDomain(ctx, it.Domain)
	if err != nil {
		return nil, err
	}

	existing, err := s.Links.LinkByURL(ctx, d.ID, longURL)
	switch {
	case err == nil:
		return s.reuse(d, existing, custom)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	code := custom
	if code != "" {
		if err := s.Alloc.Reserve(ctx, d.ID, code); err != nil {
			return nil, err
		}
	} else if code, err = s.Alloc.Allocate(ctx, d.ID); err != nil {
		return nil, err
	}

	l := &domain.Link{Code: code, LongURL: longURL, DomainID: d.ID}
	if err := s.Links.CreateLink(ctx, l); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		// Lost a race: either the same URL was shortened concurrently or
		// the code was taken between check and insert.
		if winner, lerr := s.Links.LinkByURL(ctx, d.ID, longURL); lerr == nil {
			return s.reuse(d, winner, custom)
		}
		return nil, domain.Conflict(fmt.Sprintf("code %q is already taken", code))
	}
	return s.result(d, l), nil
}

func (s *LinkService) reuse(d *domain.Domain, l *domain.Link, custom string) (*ShortenResult, error) {
	if custom != "" && custom != l.Code {
		return nil, domain.Conflict(fmt.Sprintf("url is already shortened as %q in this domain", l.Code))
	}
	return s.result(d, l), nil
}

func (s *LinkService) result(d *domain.Domain, l *domain.Link) *ShortenResult {
	return &ShortenResult{
		LongURL:  l.LongURL,
		Code:     l.Code,
		ShortURL: s.ShortURL(d.Name, l.Code),
		Domain:   d.Name,
	}
}

// targetDomain resolves the requested domain, or the default when name is
// empty. Inactive domains do not accept new links.
func (s *LinkService) targetDomain(ctx context.Context, name string) (*domain.Domain, error) {
	var d *domain.Domain
	if strings.TrimSpace(name) == "" {
		def, err := s.Domains.DefaultDomain(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NotFound("no default domain is configured")
			}
			return nil, err
		}
		d = def
	} else {
		n, err := NormalizeHost(name)
		if err != nil {
			return nil, domain.Validation("invalid domain")
		}
		byName, err := s.Domains.DomainByName(ctx, n)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NotFound(fmt.Sprintf("domain %q not found", n))
			}
			return nil, err
		}
		d = byName
	}
	if !d.IsActive {
		return nil, domain.Validation(fmt.Sprintf("domain %q is not active", d.Name))
	}
	return d, nil
}

func (s *LinkService) logger() *zerolog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return &log.Logger
}
