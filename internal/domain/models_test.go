package domain

import (
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(Domain{}).TableName():   "domains",
		(Link{}).TableName():     "links",
		(Click{}).TableName():    "link_clicks",
		(APIToken{}).TableName(): "api_tokens",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestAPIToken_Revoked(t *testing.T) {
	var tok APIToken
	if tok.Revoked() {
		t.Fatalf("zero token should not be revoked")
	}
	now := time.Now()
	tok.RevokedAt = &now
	if !tok.Revoked() {
		t.Fatalf("token with RevokedAt should be revoked")
	}
}

func TestNewClickEvent_StampsUTC(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	ev := NewClickEvent("s.test", "abc", "1.2.3.4", "ua", "ref")
	if ev.Domain != "s.test" || ev.Code != "abc" || ev.IP != "1.2.3.4" || ev.UserAgent != "ua" || ev.Referer != "ref" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.OccurredAt.Before(before) || ev.OccurredAt.Location() != time.UTC {
		t.Fatalf("OccurredAt not stamped in UTC: %v", ev.OccurredAt)
	}
}

func TestMigrations_Indexes_AndConstraints(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&Domain{}, &Link{}, &Click{}, &APIToken{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, idx := range []struct {
		model any
		name  string
	}{
		{&Domain{}, "ux_domains_name"},
		{&Link{}, "ux_links_domain_code"},
		{&Link{}, "ux_links_domain_url"},
		{&Click{}, "idx_clicks_link_time"},
		{&APIToken{}, "ux_api_tokens_hash"},
	} {
		if !m.HasIndex(idx.model, idx.name) {
			t.Fatalf("expected index %s on %T", idx.name, idx.model)
		}
	}

	now := time.Now().UTC()
	d := &Domain{Name: "s.test", IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("insert domain: %v", err)
	}
	l := &Link{Code: "abc123", LongURL: "https://example.com/page", DomainID: d.ID, CreatedAt: now}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("insert link: %v", err)
	}

	// (domain_id, code) is unique.
	dup := &Link{Code: "abc123", LongURL: "https://example.com/other", DomainID: d.ID, CreatedAt: now}
	if err := db.Create(dup).Error; err == nil {
		t.Fatalf("expected unique violation on (domain_id, code)")
	}
	// (domain_id, long_url) is unique.
	dup = &Link{Code: "zzz999", LongURL: "https://example.com/page", DomainID: d.ID, CreatedAt: now}
	if err := db.Create(dup).Error; err == nil {
		t.Fatalf("expected unique violation on (domain_id, long_url)")
	}

	// Clicks must reference an existing link.
	if err := db.Create(&Click{LinkID: 9999, ClickedAt: now}).Error; err == nil {
		t.Fatalf("expected FK violation for unknown link")
	}
	if err := db.Create(&Click{LinkID: l.ID, ClickedAt: now, IP: "1.2.3.4"}).Error; err != nil {
		t.Fatalf("insert click: %v", err)
	}

	// Domains owning links cannot be deleted.
	if err := db.Delete(&Domain{}, d.ID).Error; err == nil {
		t.Fatalf("expected RESTRICT to block domain delete")
	}

	// Deleting a link cascades to its clicks.
	if err := db.Delete(&Link{}, l.ID).Error; err != nil {
		t.Fatalf("delete link: %v", err)
	}
	var cnt int64
	if err := db.Model(&Click{}).Where("link_id = ?", l.ID).Count(&cnt).Error; err != nil {
		t.Fatalf("count clicks: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected clicks to cascade-delete, got %d", cnt)
	}
}
