// Package services holds the application logic of the shortener: code
// allocation, cache-aside resolution, the redirect path, shortening, stats,
// domain administration, token authentication and health reporting.
//
// Services depend on the capability interfaces below rather than on a
// concrete store. Every error they pass through carries a domain kind (see
// domain.Code), so handlers can map outcomes without knowing the storage
// technology.
package services

import (
	"context"
	"time"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// DomainLookup resolves domains by name or as the current default.
type DomainLookup interface {
	DomainByName(ctx context.Context, name string) (*domain.Domain, error)
	DefaultDomain(ctx context.Context) (*domain.Domain, error)
}

// DomainStore is the full domain administration contract.
type DomainStore interface {
	DomainLookup
	DomainByID(ctx context.Context, id int64) (*domain.Domain, error)
	ListDomains(ctx context.Context) ([]domain.Domain, error)
	CreateDomain(ctx context.Context, d *domain.Domain) error
	SetDefaultDomain(ctx context.Context, id int64) error
	UpdateDomain(ctx context.Context, id int64, isActive *bool, description *string) (*domain.Domain, error)
	DeleteDomain(ctx context.Context, id int64) error
	CountDomainLinks(ctx context.Context, domainID int64) (int64, error)
}

// LinkLookup reads a single link by its (domain, code) key.
type LinkLookup interface {
	LinkByCode(ctx context.Context, domainID int64, code string) (*domain.Link, error)
}

// LinkStore persists and looks up links.
type LinkStore interface {
	LinkLookup
	LinkExists(ctx context.Context, domainID int64, code string) (bool, error)
	LinkByURL(ctx context.Context, domainID int64, longURL string) (*domain.Link, error)
	CreateLink(ctx context.Context, l *domain.Link) error
}

// StatsStore serves the click analytics queries.
type StatsStore interface {
	CountClicks(ctx context.Context, linkID int64, from, to *time.Time) (int64, error)
	ListClicks(ctx context.Context, linkID int64, from, to *time.Time, offset, limit int) ([]domain.Click, error)
	CountLinks(ctx context.Context, domainID *int64) (int64, error)
	ListLinkStats(ctx context.Context, f domain.StatsFilter, offset, limit int) ([]domain.LinkStat, error)
}

// TokenStore persists API tokens by hash.
type TokenStore interface {
	CreateToken(ctx context.Context, t *domain.APIToken) error
	TokenByHash(ctx context.Context, hash string) (*domain.APIToken, error)
	ListTokens(ctx context.Context) ([]domain.APIToken, error)
	TouchToken(ctx context.Context, id int64, at time.Time) error
	RevokeToken(ctx context.Context, id int64, at time.Time) error
}

// ClickSink accepts click events without blocking. The result reports
// whether the event was queued; callers on the redirect path ignore it.
type ClickSink interface {
	Offer(ev domain.ClickEvent) bool
}
