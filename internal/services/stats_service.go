package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// Pagination bounds for stats listings.
const (
	DefaultPage     = 1
	DefaultPageSize = 25
	MinPageSize     = 10
	MaxPageSize     = 50
)

// StatsQuery selects a window and page. Zero Page or PageSize use the
// defaults; an empty Domain means the default domain for link stats and all
// domains for the listing.
type StatsQuery struct {
	Domain   string
	Page     int
	PageSize int
	From     *time.Time
	To       *time.Time
}

// Pagination describes the page returned.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// LinkStats is the detailed view of one link.
type LinkStats struct {
	Link        domain.Link
	DomainName  string
	ShortURL    string
	TotalClicks int64
	Clicks      []domain.Click
	Pagination  Pagination
}

// StatsList is a page of links with their click counts.
type StatsList struct {
	Items      []domain.LinkStat
	Pagination Pagination
}

// StatsService answers click analytics queries.
type StatsService struct {
	Domains DomainLookup
	Links   LinkLookup
	Stats   StatsStore
	// ShortURL renders short links; LinkService.ShortURL fits.
	ShortURL func(domainName, code string) string
}

// NewStatsService wires a StatsService.
func NewStatsService(domains DomainLookup, links LinkLookup, stats StatsStore, shortURL func(string, string) string) *StatsService {
	return &StatsService{Domains: domains, Links: links, Stats: stats, ShortURL: shortURL}
}

// ValidatePage applies defaults and checks bounds.
func ValidatePage(page, pageSize int) (int, int, error) {
	if page == 0 {
		page = DefaultPage
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		return 0, 0, domain.Validation("page must be >= 1")
	}
	if pageSize < MinPageSize || pageSize > MaxPageSize {
		return 0, 0, domain.Validation(fmt.Sprintf("page_size must be between %d and %d", MinPageSize, MaxPageSize))
	}
	return page, pageSize, nil
}

func validateWindow(from, to *time.Time) error {
	if from != nil && to != nil && !from.Before(*to) {
		return domain.Validation("from must be before to")
	}
	return nil
}

func newPagination(page, pageSize int, total int64) Pagination {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: pages}
}

// LinkStats returns a link with its click total in the window and a page of
// its clicks, newest first.
func (s *StatsService) LinkStats(ctx context.Context, code string, q StatsQuery) (*LinkStats, error) {
	tr := otel.Tracer("services/StatsService")
	ctx, span := tr.Start(ctx, "LinkStats", trace.WithAttributes(
		attribute.String("link.code", code),
		attribute.String("link.domain", q.Domain),
		attribute.Int("page", q.Page),
		attribute.Int("page_size", q.PageSize),
	))
	defer span.End()

	page, size, err := ValidatePage(q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}
	if err := validateWindow(q.From, q.To); err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, domain.Validation("code is required")
	}

	d, err := s.domainOrDefault(ctx, q.Domain)
	if err != nil {
		return nil, err
	}
	l, err := s.Links.LinkByCode(ctx, d.ID, code)
	if err != nil {
		return nil, notFoundAs(err, "short link not found")
	}

	total, err := s.Stats.CountClicks(ctx, l.ID, q.From, q.To)
	if err != nil {
		return nil, err
	}
	clicks := []domain.Click{}
	if offset := (page - 1) * size; int64(offset) < total {
		if clicks, err = s.Stats.ListClicks(ctx, l.ID, q.From, q.To, offset, size); err != nil {
			return nil, err
		}
	}

	out := &LinkStats{
		Link:        *l,
		DomainName:  d.Name,
		TotalClicks: total,
		Clicks:      clicks,
		Pagination:  newPagination(page, size, total),
	}
	if s.ShortURL != nil {
		out.ShortURL = s.ShortURL(d.Name, l.Code)
	}
	return out, nil
}

// List returns links, newest first, with click counts in the window. An
// empty q.Domain lists every domain.
func (s *StatsService) List(ctx context.Context, q StatsQuery) (*StatsList, error) {
	tr := otel.Tracer("services/StatsService")
	ctx, span := tr.Start(ctx, "List", trace.WithAttributes(
		attribute.String("link.domain", q.Domain),
		attribute.Int("page", q.Page),
		attribute.Int("page_size", q.PageSize),
	))
	defer span.End()

	page, size, err := ValidatePage(q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}
	if err := validateWindow(q.From, q.To); err != nil {
		return nil, err
	}

	f := domain.StatsFilter{From: q.From, To: q.To}
	if strings.TrimSpace(q.Domain) != "" {
		d, err := s.domainByName(ctx, q.Domain)
		if err != nil {
			return nil, err
		}
		f.DomainID = &d.ID
	}

	total, err := s.Stats.CountLinks(ctx, f.DomainID)
	if err != nil {
		return nil, err
	}
	items := []domain.LinkStat{}
	if offset := (page - 1) * size; int64(offset) < total {
		if items, err = s.Stats.ListLinkStats(ctx, f, offset, size); err != nil {
			return nil, err
		}
	}
	return &StatsList{Items: items, Pagination: newPagination(page, size, total)}, nil
}

func (s *StatsService) domainOrDefault(ctx context.Context, name string) (*domain.Domain, error) {
	if strings.TrimSpace(name) != "" {
		return s.domainByName(ctx, name)
	}
	d, err := s.Domains.DefaultDomain(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("no default domain is configured")
	}
	return d, err
}

func (s *StatsService) domainByName(ctx context.Context, name string) (*domain.Domain, error) {
	n, err := NormalizeHost(name)
	if err != nil {
		return nil, domain.Validation("invalid domain")
	}
	d, err := s.Domains.DomainByName(ctx, n)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(fmt.Sprintf("domain %q not found", n))
	}
	return d, err
}
