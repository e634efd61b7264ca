package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// CreateToken stores a hashed API token.
func CreateToken(ctx context.Context, db *gorm.DB, t *domain.APIToken) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(t).Error
}

// GetTokenByHash looks a token up by its SHA-256 hex digest.
func GetTokenByHash(ctx context.Context, db *gorm.DB, hash string) (*domain.APIToken, error) {
	var t domain.APIToken
	if err := db.WithContext(ctx).Where("token_hash = ?", hash).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTokens returns all tokens, newest first.
func ListTokens(ctx context.Context, db *gorm.DB) ([]domain.APIToken, error) {
	var out []domain.APIToken
	err := db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&out).Error
	return out, err
}

// TouchToken records the last successful use of a token.
func TouchToken(ctx context.Context, db *gorm.DB, id int64, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.APIToken{}).
		Where("id = ?", id).
		Update("last_used_at", at.UTC()).Error
}

// RevokeToken marks a token revoked. Revoking twice keeps the first timestamp.
func RevokeToken(ctx context.Context, db *gorm.DB, id int64, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.APIToken{}).
		Where("id = ?", id).
		Where("revoked_at IS NULL").
		Update("revoked_at", at.UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.WithContext(ctx).Model(&domain.APIToken{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}
