// Package domain defines the persistence models for domains, links, clicks
// and API tokens. These types are mapped with GORM and form the core data
// layer of the shortener.
package domain

import "time"

// Domain is a hostname scope under which short codes are unique. Exactly one
// row carries IsDefault at any time; the flag is moved with a clear-then-set
// update inside a single transaction (see repo.SetDefaultDomain).
type Domain struct {
	ID          int64     `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name"        gorm:"type:varchar(253);not null;uniqueIndex:ux_domains_name"`
	IsDefault   bool      `json:"is_default"  gorm:"not null;default:false;index"`
	IsActive    bool      `json:"is_active"   gorm:"not null"`
	Description string    `json:"description,omitempty" gorm:"type:varchar(500)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Domain.
func (Domain) TableName() string { return "domains" }

// Link maps a short code to a normalized long URL within a domain.
//
// Fields:
//   - Code: unique per domain (ux_links_domain_code).
//   - LongURL: normalized target; unique per domain so shortening is idempotent.
//   - DomainID: owning domain; deletes are restricted while links exist.
type Link struct {
	ID        int64     `json:"id"        gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"code"      gorm:"type:varchar(32);not null;uniqueIndex:ux_links_domain_code,priority:2"`
	LongURL   string    `json:"long_url"  gorm:"type:text;not null;uniqueIndex:ux_links_domain_url,priority:2"`
	DomainID  int64     `json:"domain_id" gorm:"not null;uniqueIndex:ux_links_domain_code,priority:1;uniqueIndex:ux_links_domain_url,priority:1"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Domain Domain `json:"-" gorm:"foreignKey:DomainID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Link.
func (Link) TableName() string { return "links" }

// Click is one persisted redirect. Rows are append-only.
type Click struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	LinkID    int64     `json:"link_id"    gorm:"not null;index:idx_clicks_link_time,priority:1"`
	ClickedAt time.Time `json:"clicked_at" gorm:"not null;index:idx_clicks_link_time,priority:2"`
	UserAgent string    `json:"user_agent,omitempty" gorm:"type:text"`
	Referer   string    `json:"referer,omitempty"    gorm:"type:text"`
	IP        string    `json:"ip,omitempty"         gorm:"type:varchar(45)"`

	Link Link `json:"-" gorm:"foreignKey:LinkID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Click.
func (Click) TableName() string { return "link_clicks" }

// APIToken is a bearer credential for the stats endpoints. Only the SHA-256
// hex digest of the token is stored.
type APIToken struct {
	ID         int64      `json:"id"   gorm:"primaryKey;autoIncrement"`
	Name       string     `json:"name" gorm:"type:varchar(100);not null"`
	TokenHash  string     `json:"-"    gorm:"type:char(64);not null;uniqueIndex:ux_api_tokens_hash"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// TableName returns the database table name for APIToken.
func (APIToken) TableName() string { return "api_tokens" }

// Revoked reports whether the token has been revoked.
func (t APIToken) Revoked() bool { return t.RevokedAt != nil }

// LinkStat is a link together with its click count inside a time window.
type LinkStat struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	LongURL    string    `json:"long_url"`
	DomainID   int64     `json:"domain_id"`
	DomainName string    `json:"domain"`
	CreatedAt  time.Time `json:"created_at"`
	Clicks     int64     `json:"clicks"`
}

// StatsFilter narrows stats queries. Nil fields are unbounded.
type StatsFilter struct {
	DomainID *int64
	From     *time.Time
	To       *time.Time
}
