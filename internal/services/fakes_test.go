package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// ----- In-memory store -----

type memStore struct {
	mu sync.Mutex

	domains []domain.Domain
	links   []domain.Link
	clicks  []domain.Click
	tokens  []domain.APIToken

	// call counters
	domainLookups int
	linkLookups   int
	existsCalls   int

	// scripted failures
	lookupErr error
	createErr []error
	touchErr  error
	// takenCodes makes LinkExists report these codes as used
	takenCodes map[string]bool
}

func newMemStore(domains ...domain.Domain) *memStore {
	s := &memStore{takenCodes: map[string]bool{}}
	for i, d := range domains {
		d.ID = int64(i + 1)
		s.domains = append(s.domains, d)
	}
	return s
}

func (s *memStore) addLink(domainID int64, code, longURL string) domain.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := domain.Link{ID: int64(len(s.links) + 1), DomainID: domainID, Code: code, LongURL: longURL, CreatedAt: time.Now().UTC()}
	s.links = append(s.links, l)
	return l
}

func (s *memStore) DomainByName(_ context.Context, name string) (*domain.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domainLookups++
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	for _, d := range s.domains {
		if d.Name == name {
			d := d
			return &d, nil
		}
	}
	return nil, domain.NotFound("domain not found")
}

func (s *memStore) DomainByID(_ context.Context, id int64) (*domain.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.domains {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, domain.NotFound("domain not found")
}

func (s *memStore) DefaultDomain(_ context.Context) (*domain.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.domains {
		if d.IsDefault {
			d := d
			return &d, nil
		}
	}
	return nil, domain.NotFound("domain not found")
}

func (s *memStore) ListDomains(_ context.Context) ([]domain.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Domain(nil), s.domains...), nil
}

func (s *memStore) CreateDomain(_ context.Context, d *domain.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.domains {
		if x.Name == d.Name {
			return domain.Conflict("domain already exists")
		}
	}
	if d.IsDefault {
		for i := range s.domains {
			s.domains[i].IsDefault = false
		}
	}
	d.ID = int64(len(s.domains) + 1)
	s.domains = append(s.domains, *d)
	return nil
}

func (s *memStore) SetDefaultDomain(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.domains {
		s.domains[i].IsDefault = s.domains[i].ID == id
	}
	return nil
}

func (s *memStore) UpdateDomain(_ context.Context, id int64, isActive *bool, description *string) (*domain.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.domains {
		if s.domains[i].ID == id {
			if isActive != nil {
				s.domains[i].IsActive = *isActive
			}
			if description != nil {
				s.domains[i].Description = *description
			}
			d := s.domains[i]
			return &d, nil
		}
	}
	return nil, domain.NotFound("domain not found")
}

func (s *memStore) DeleteDomain(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.domains {
		if s.domains[i].ID == id {
			s.domains = append(s.domains[:i], s.domains[i+1:]...)
			return nil
		}
	}
	return domain.NotFound("domain not found")
}

func (s *memStore) CountDomainLinks(_ context.Context, domainID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, l := range s.links {
		if l.DomainID == domainID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) LinkExists(_ context.Context, domainID int64, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existsCalls++
	if s.takenCodes[code] {
		return true, nil
	}
	for _, l := range s.links {
		if l.DomainID == domainID && l.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) LinkByCode(_ context.Context, domainID int64, code string) (*domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.linkLookups++
	for _, l := range s.links {
		if l.DomainID == domainID && l.Code == code {
			l := l
			return &l, nil
		}
	}
	return nil, domain.NotFound("link not found")
}

func (s *memStore) LinkByURL(_ context.Context, domainID int64, longURL string) (*domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.DomainID == domainID && l.LongURL == longURL {
			l := l
			return &l, nil
		}
	}
	return nil, domain.NotFound("link not found")
}

func (s *memStore) CreateLink(_ context.Context, l *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.createErr) > 0 {
		err := s.createErr[0]
		s.createErr = s.createErr[1:]
		if err != nil {
			return err
		}
	}
	for _, x := range s.links {
		if x.DomainID == l.DomainID && (x.Code == l.Code || x.LongURL == l.LongURL) {
			return domain.Conflict("link already exists")
		}
	}
	l.ID = int64(len(s.links) + 1)
	l.CreatedAt = time.Now().UTC()
	s.links = append(s.links, *l)
	return nil
}

func (s *memStore) inWindow(c domain.Click, from, to *time.Time) bool {
	if from != nil && c.ClickedAt.Before(*from) {
		return false
	}
	if to != nil && !c.ClickedAt.Before(*to) {
		return false
	}
	return true
}

func (s *memStore) CountClicks(_ context.Context, linkID int64, from, to *time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, c := range s.clicks {
		if c.LinkID == linkID && s.inWindow(c, from, to) {
			n++
		}
	}
	return n, nil
}

func (s *memStore) ListClicks(_ context.Context, linkID int64, from, to *time.Time, offset, limit int) ([]domain.Click, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Click
	for _, c := range s.clicks {
		if c.LinkID == linkID && s.inWindow(c, from, to) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClickedAt.After(out[j].ClickedAt) })
	return page(out, offset, limit), nil
}

func (s *memStore) CountLinks(_ context.Context, domainID *int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, l := range s.links {
		if domainID == nil || l.DomainID == *domainID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) ListLinkStats(_ context.Context, f domain.StatsFilter, offset, limit int) ([]domain.LinkStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LinkStat
	for i := len(s.links) - 1; i >= 0; i-- {
		l := s.links[i]
		if f.DomainID != nil && l.DomainID != *f.DomainID {
			continue
		}
		st := domain.LinkStat{ID: l.ID, Code: l.Code, LongURL: l.LongURL, DomainID: l.DomainID, CreatedAt: l.CreatedAt}
		for _, c := range s.clicks {
			if c.LinkID == l.ID && s.inWindow(c, f.From, f.To) {
				st.Clicks++
			}
		}
		out = append(out, st)
	}
	return page(out, offset, limit), nil
}

func (s *memStore) CreateToken(_ context.Context, t *domain.APIToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = int64(len(s.tokens) + 1)
	s.tokens = append(s.tokens, *t)
	return nil
}

func (s *memStore) TokenByHash(_ context.Context, hash string) (*domain.APIToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	for _, t := range s.tokens {
		if t.TokenHash == hash {
			t := t
			return &t, nil
		}
	}
	return nil, domain.NotFound("token not found")
}

func (s *memStore) ListTokens(_ context.Context) ([]domain.APIToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.APIToken(nil), s.tokens...), nil
}

func (s *memStore) TouchToken(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.touchErr != nil {
		return s.touchErr
	}
	for i := range s.tokens {
		if s.tokens[i].ID == id {
			s.tokens[i].LastUsedAt = &at
		}
	}
	return nil
}

func (s *memStore) RevokeToken(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tokens {
		if s.tokens[i].ID == id {
			if s.tokens[i].RevokedAt == nil {
				s.tokens[i].RevokedAt = &at
			}
			return nil
		}
	}
	return domain.NotFound("token not found")
}

func page[T any](in []T, offset, limit int) []T {
	if offset >= len(in) {
		return []T{}
	}
	end := offset + limit
	if end > len(in) {
		end = len(in)
	}
	return in[offset:end]
}

// ----- Cache fakes -----

type fakeCache struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	setErr  error
	gets    int
	sets    int
	lastTTL time.Duration
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]string{}} }

func (c *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.lastTTL = ttl
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getErr
}

func (c *fakeCache) Name() string { return "fake" }
func (c *fakeCache) Close() error { return nil }

func (c *fakeCache) value(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

// ----- Click sink fake -----

type fakeSink struct {
	mu     sync.Mutex
	accept bool
	events []domain.ClickEvent
}

func (f *fakeSink) Offer(ev domain.ClickEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.accept
}

// ----- Generator fake -----

type seqGen struct {
	codes []string
	err   error
	n     int
}

func (g *seqGen) Generate() (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if g.n < len(g.codes) {
		c := g.codes[g.n]
		g.n++
		return c, nil
	}
	g.n++
	return fmt.Sprintf("gen%09d", g.n), nil
}

var errCacheDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func activeDomain(name string, isDefault bool) domain.Domain {
	return domain.Domain{Name: name, IsActive: true, IsDefault: isDefault}
}
