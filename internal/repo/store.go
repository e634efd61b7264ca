package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// Store adapts the repository free functions to the capability interfaces
// consumed by services and the click worker. Every error it returns carries
// a domain kind (see translate).
type Store struct {
	DB *gorm.DB
}

// NewStore binds the repository functions to db.
func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

// Ping checks connectivity with the underlying pool.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return translate(err, "database")
	}
	return translate(sqlDB.PingContext(ctx), "database")
}

// --- domains ---

func (s *Store) CreateDomain(ctx context.Context, d *domain.Domain) error {
	return translate(CreateDomain(ctx, s.DB, d), "domain")
}

func (s *Store) DomainByName(ctx context.Context, name string) (*domain.Domain, error) {
	d, err := GetDomainByName(ctx, s.DB, name)
	return d, translate(err, "domain")
}

func (s *Store) DomainByID(ctx context.Context, id int64) (*domain.Domain, error) {
	d, err := GetDomainByID(ctx, s.DB, id)
	return d, translate(err, "domain")
}

func (s *Store) DefaultDomain(ctx context.Context) (*domain.Domain, error) {
	d, err := GetDefaultDomain(ctx, s.DB)
	return d, translate(err, "default domain")
}

func (s *Store) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	out, err := ListDomains(ctx, s.DB)
	return out, translate(err, "domain")
}

func (s *Store) SetDefaultDomain(ctx context.Context, id int64) error {
	return translate(SetDefaultDomain(ctx, s.DB, id), "domain")
}

func (s *Store) UpdateDomain(ctx context.Context, id int64, isActive *bool, description *string) (*domain.Domain, error) {
	d, err := UpdateDomain(ctx, s.DB, id, isActive, description)
	return d, translate(err, "domain")
}

func (s *Store) DeleteDomain(ctx context.Context, id int64) error {
	return translate(DeleteDomain(ctx, s.DB, id), "domain")
}

func (s *Store) CountDomainLinks(ctx context.Context, domainID int64) (int64, error) {
	n, err := CountDomainLinks(ctx, s.DB, domainID)
	return n, translate(err, "link")
}

// --- links & clicks ---

func (s *Store) CreateLink(ctx context.Context, l *domain.Link) error {
	return translate(CreateLink(ctx, s.DB, l), "link")
}

func (s *Store) LinkExists(ctx context.Context, domainID int64, code string) (bool, error) {
	ok, err := LinkExists(ctx, s.DB, domainID, code)
	return ok, translate(err, "link")
}

func (s *Store) LinkByCode(ctx context.Context, domainID int64, code string) (*domain.Link, error) {
	l, err := GetLinkByCode(ctx, s.DB, domainID, code)
	return l, translate(err, "link")
}

func (s *Store) LinkByURL(ctx context.Context, domainID int64, longURL string) (*domain.Link, error) {
	l, err := GetLinkByURL(ctx, s.DB, domainID, longURL)
	return l, translate(err, "link")
}

func (s *Store) InsertClick(ctx context.Context, c *domain.Click) error {
	return translate(InsertClick(ctx, s.DB, c), "click")
}

// --- stats ---

func (s *Store) CountClicks(ctx context.Context, linkID int64, from, to *time.Time) (int64, error) {
	n, err := CountClicks(ctx, s.DB, linkID, from, to)
	return n, translate(err, "click")
}

func (s *Store) ListClicks(ctx context.Context, linkID int64, from, to *time.Time, offset, limit int) ([]domain.Click, error) {
	out, err := ListClicksPage(ctx, s.DB, linkID, from, to, offset, limit)
	return out, translate(err, "click")
}

func (s *Store) CountLinks(ctx context.Context, domainID *int64) (int64, error) {
	n, err := CountLinks(ctx, s.DB, domainID)
	return n, translate(err, "link")
}

func (s *Store) ListLinkStats(ctx context.Context, f domain.StatsFilter, offset, limit int) ([]domain.LinkStat, error) {
	out, err := ListLinkStatsPage(ctx, s.DB, f, offset, limit)
	return out, translate(err, "link")
}

// --- tokens ---

func (s *Store) CreateToken(ctx context.Context, t *domain.APIToken) error {
	return translate(CreateToken(ctx, s.DB, t), "token")
}

func (s *Store) TokenByHash(ctx context.Context, hash string) (*domain.APIToken, error) {
	t, err := GetTokenByHash(ctx, s.DB, hash)
	return t, translate(err, "token")
}

func (s *Store) ListTokens(ctx context.Context) ([]domain.APIToken, error) {
	out, err := ListTokens(ctx, s.DB)
	return out, translate(err, "token")
}

func (s *Store) TouchToken(ctx context.Context, id int64, at time.Time) error {
	return translate(TouchToken(ctx, s.DB, id, at), "token")
}

func (s *Store) RevokeToken(ctx context.Context, id int64, at time.Time) error {
	return translate(RevokeToken(ctx, s.DB, id, at), "token")
}
