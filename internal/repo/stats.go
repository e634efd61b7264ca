// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the click statistics queries behind the
// stats endpoints. Time bounds are compared in UTC; from is inclusive and to
// is exclusive.
package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// CountClicks returns the number of clicks of a link within [from, to).
func CountClicks(ctx context.Context, db *gorm.DB, linkID int64, from, to *time.Time) (int64, error) {
	var n int64
	q := db.WithContext(ctx).Model(&domain.Click{}).Where("link_id = ?", linkID)
	q = clickWindow(q, "clicked_at", from, to)
	err := q.Count(&n).Error
	return n, err
}

// ListClicksPage returns a page of a link's clicks, newest first.
func ListClicksPage(ctx context.Context, db *gorm.DB, linkID int64, from, to *time.Time, offset, limit int) ([]domain.Click, error) {
	var out []domain.Click
	q := db.WithContext(ctx).Where("link_id = ?", linkID)
	q = clickWindow(q, "clicked_at", from, to)
	err := q.Order("clicked_at desc").
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountLinks returns the number of links, optionally within one domain.
func CountLinks(ctx context.Context, db *gorm.DB, domainID *int64) (int64, error) {
	var n int64
	q := db.WithContext(ctx).Model(&domain.Link{})
	if domainID != nil {
		q = q.Where("domain_id = ?", *domainID)
	}
	err := q.Count(&n).Error
	return n, err
}

// ListLinkStatsPage returns a page of links, newest first, each with its
// click count inside the filter's time window. Links without clicks are
// included with a zero count.
func ListLinkStatsPage(ctx context.Context, db *gorm.DB, f domain.StatsFilter, offset, limit int) ([]domain.LinkStat, error) {
	join := []string{"LEFT JOIN link_clicks ON link_clicks.link_id = links.id"}
	var args []any
	if f.From != nil {
		join = append(join, "link_clicks.clicked_at >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		join = append(join, "link_clicks.clicked_at < ?")
		args = append(args, f.To.UTC())
	}

	q := db.WithContext(ctx).
		Table("links").
		Select("links.id, links.code, links.long_url, links.domain_id, domains.name AS domain_name, links.created_at, COUNT(link_clicks.id) AS clicks").
		Joins("JOIN domains ON domains.id = links.domain_id").
		Joins(strings.Join(join, " AND "), args...)
	if f.DomainID != nil {
		q = q.Where("links.domain_id = ?", *f.DomainID)
	}

	var out []domain.LinkStat
	err := q.Group("links.id, links.code, links.long_url, links.domain_id, domains.name, links.created_at").
		Order("links.created_at desc").
		Order("links.id desc").
		Offset(offset).
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func clickWindow(q *gorm.DB, col string, from, to *time.Time) *gorm.DB {
	if from != nil {
		q = q.Where(col+" >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where(col+" < ?", to.UTC())
	}
	return q
}
