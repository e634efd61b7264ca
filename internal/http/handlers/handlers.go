package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-url-shortener/internal/domain"
	"github.com/tbourn/go-url-shortener/internal/services"
	"github.com/tbourn/go-url-shortener/internal/utils"
)

//
// Service contracts
//

// Redirector resolves a short link and records the click.
type Redirector interface {
	Handle(ctx context.Context, req services.RedirectRequest) (string, error)
}

// Shortener creates short links in batches.
type Shortener interface {
	ShortenBatch(ctx context.Context, items []services.ShortenItem) ([]services.ShortenResult, services.BatchSummary, error)
}

// StatsReader answers click analytics queries.
type StatsReader interface {
	LinkStats(ctx context.Context, code string, q services.StatsQuery) (*services.LinkStats, error)
	List(ctx context.Context, q services.StatsQuery) (*services.StatsList, error)
}

// DomainLister lists configured domains.
type DomainLister interface {
	List(ctx context.Context, onlyActive bool) ([]domain.Domain, error)
}

// HealthChecker probes dependencies.
type HealthChecker interface {
	Check(ctx context.Context) services.HealthReport
}

// Services bundles what the handlers depend on. Every field is required.
type Services struct {
	Redirect Redirector
	Links    Shortener
	Stats    StatsReader
	Domains  DomainLister
	Health   HealthChecker
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	redirect Redirector
	links    Shortener
	stats    StatsReader
	domains  DomainLister
	health   HealthChecker
}

// New binds handlers to svc.
func New(svc Services) *Handlers {
	return &Handlers{
		redirect: svc.Redirect,
		links:    svc.Links,
		stats:    svc.Stats,
		domains:  svc.Domains,
		health:   svc.Health,
	}
}

// statsQuery reads domain, page, page_size, from and to. Parameters that are
// present must be well formed; page and page_size must also be positive so
// that an explicit zero is rejected instead of silently defaulted.
func statsQuery(c *gin.Context) (services.StatsQuery, error) {
	q := services.StatsQuery{Domain: c.Query("domain")}

	var err error
	if q.Page, err = positiveParam(c, "page"); err != nil {
		return q, err
	}
	if q.PageSize, err = positiveParam(c, "page_size"); err != nil {
		return q, err
	}
	if q.From, err = utils.ParseTimeParam(c.Query("from")); err != nil {
		return q, domain.Validation("from: " + err.Error())
	}
	if q.To, err = utils.ParseTimeParam(c.Query("to")); err != nil {
		return q, domain.Validation("to: " + err.Error())
	}
	return q, nil
}

func positiveParam(c *gin.Context, name string) (int, error) {
	raw, present := c.GetQuery(name)
	if !present {
		return 0, nil
	}
	n, err := utils.ParseIntParam(raw, 0)
	if err != nil {
		return 0, domain.Validation(name + ": " + err.Error())
	}
	if n < 1 {
		return 0, domain.Validation(name + " must be greater than 0")
	}
	return n, nil
}
