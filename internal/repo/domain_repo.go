// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Domain model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. Not-found cases return
// gorm.ErrRecordNotFound; Store translates errors into the domain taxonomy.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// CreateDomain inserts d. When d.IsDefault is set the previous default is
// cleared in the same transaction.
func CreateDomain(ctx context.Context, db *gorm.DB, d *domain.Domain) error {
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if d.IsDefault {
			if err := clearDefault(tx, now); err != nil {
				return err
			}
		}
		return tx.Create(d).Error
	})
}

// GetDomainByName fetches a domain by its (normalized) host name.
func GetDomainByName(ctx context.Context, db *gorm.DB, name string) (*domain.Domain, error) {
	var d domain.Domain
	if err := db.WithContext(ctx).Where("name = ?", name).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDomainByID fetches a domain by primary key.
func GetDomainByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Domain, error) {
	var d domain.Domain
	if err := db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDefaultDomain returns the domain flagged is_default.
func GetDefaultDomain(ctx context.Context, db *gorm.DB) (*domain.Domain, error) {
	var d domain.Domain
	if err := db.WithContext(ctx).Where("is_default = ?", true).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDomains returns all domains, default first, then by name.
func ListDomains(ctx context.Context, db *gorm.DB) ([]domain.Domain, error) {
	var out []domain.Domain
	err := db.WithContext(ctx).
		Order("is_default desc").
		Order("name asc").
		Find(&out).Error
	return out, err
}

// SetDefaultDomain moves the default flag to id: every other row is cleared
// and the target is set inside one transaction. It returns
// gorm.ErrRecordNotFound when id does not exist.
func SetDefaultDomain(ctx context.Context, db *gorm.DB, id int64) error {
	now := time.Now().UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d domain.Domain
		if err := tx.Select("id").First(&d, id).Error; err != nil {
			return err
		}
		if err := clearDefault(tx, now); err != nil {
			return err
		}
		return tx.Model(&domain.Domain{}).
			Where("id = ?", id).
			Updates(map[string]any{"is_default": true, "updated_at": now}).Error
	})
}

// UpdateDomain patches the mutable fields of a domain. Nil arguments are
// left untouched.
func UpdateDomain(ctx context.Context, db *gorm.DB, id int64, isActive *bool, description *string) (*domain.Domain, error) {
	fields := map[string]any{"updated_at": time.Now().UTC()}
	if isActive != nil {
		fields["is_active"] = *isActive
	}
	if description != nil {
		fields["description"] = *description
	}
	res := db.WithContext(ctx).Model(&domain.Domain{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetDomainByID(ctx, db, id)
}

// DeleteDomain removes a domain that is neither the default nor the owner of
// any link. Both guards run in the same transaction as the delete.
func DeleteDomain(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d domain.Domain
		if err := tx.First(&d, id).Error; err != nil {
			return err
		}
		if d.IsDefault {
			return domain.Validation("the default domain cannot be deleted")
		}
		var links int64
		if err := tx.Model(&domain.Link{}).Where("domain_id = ?", id).Count(&links).Error; err != nil {
			return err
		}
		if links > 0 {
			return domain.Conflict("domain still owns links")
		}
		return tx.Delete(&domain.Domain{}, id).Error
	})
}

// CountDomainLinks returns the number of links owned by a domain.
func CountDomainLinks(ctx context.Context, db *gorm.DB, domainID int64) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Link{}).Where("domain_id = ?", domainID).Count(&n).Error
	return n, err
}

func clearDefault(tx *gorm.DB, now time.Time) error {
	return tx.Model(&domain.Domain{}).
		Where("is_default = ?", true).
		Updates(map[string]any{"is_default": false, "updated_at": now}).Error
}
