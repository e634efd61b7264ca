package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// CreateLink inserts a link. Uniqueness of (domain_id, code) and
// (domain_id, long_url) is enforced by the schema, not by a prior read.
func CreateLink(ctx context.Context, db *gorm.DB, l *domain.Link) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Omit("Domain").Create(l).Error
}

// LinkExists reports whether code is taken within the domain.
func LinkExists(ctx context.Context, db *gorm.DB, domainID int64, code string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Link{}).
		Where("domain_id = ? AND code = ?", domainID, code).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

// GetLinkByCode fetches a link by (domain_id, code).
func GetLinkByCode(ctx context.Context, db *gorm.DB, domainID int64, code string) (*domain.Link, error) {
	var l domain.Link
	err := db.WithContext(ctx).
		Where("domain_id = ? AND code = ?", domainID, code).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLinkByURL fetches a link by (domain_id, long_url).
func GetLinkByURL(ctx context.Context, db *gorm.DB, domainID int64, longURL string) (*domain.Link, error) {
	var l domain.Link
	err := db.WithContext(ctx).
		Where("domain_id = ? AND long_url = ?", domainID, longURL).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// InsertClick appends a click row.
func InsertClick(ctx context.Context, db *gorm.DB, c *domain.Click) error {
	if c.ClickedAt.IsZero() {
		c.ClickedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Omit("Link").Create(c).Error
}
