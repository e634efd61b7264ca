package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// MaxDescriptionLen caps domain descriptions.
const MaxDescriptionLen = 500

// DomainService administers the hostnames links live under.
type DomainService struct {
	Store DomainStore
}

// NewDomainService wires a DomainService.
func NewDomainService(store DomainStore) *DomainService {
	return &DomainService{Store: store}
}

// Create registers a new active domain. When isDefault is set it becomes
// the only default.
func (s *DomainService) Create(ctx context.Context, name string, isDefault bool, description string) (*domain.Domain, error) {
	tr := otel.Tracer("services/DomainService")
	ctx, span := tr.Start(ctx, "Create", trace.WithAttributes(attribute.String("domain.name", name)))
	defer span.End()

	n, err := ValidateDomainName(name)
	if err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if len(description) > MaxDescriptionLen {
		return nil, domain.Validation("description is too long")
	}

	d := &domain.Domain{Name: n, IsDefault: isDefault, IsActive: true, Description: description}
	if err := s.Store.CreateDomain(ctx, d); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict(fmt.Sprintf("domain %q already exists", n))
		}
		return nil, err
	}
	return d, nil
}

// List returns every domain, the default first. onlyActive hides inactive ones.
func (s *DomainService) List(ctx context.Context, onlyActive bool) ([]domain.Domain, error) {
	all, err := s.Store.ListDomains(ctx)
	if err != nil || !onlyActive {
		return all, err
	}
	out := make([]domain.Domain, 0, len(all))
	for _, d := range all {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

// Get returns a domain by name.
func (s *DomainService) Get(ctx context.Context, name string) (*domain.Domain, error) {
	n, err := NormalizeHost(name)
	if err != nil {
		return nil, domain.Validation("invalid domain")
	}
	d, err := s.Store.DomainByName(ctx, n)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(fmt.Sprintf("domain %q not found", n))
	}
	return d, err
}

// Default returns the current default domain.
func (s *DomainService) Default(ctx context.Context) (*domain.Domain, error) {
	d, err := s.Store.DefaultDomain(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("no default domain is configured")
	}
	return d, err
}

// SetDefault makes the named domain the only default.
func (s *DomainService) SetDefault(ctx context.Context, name string) (*domain.Domain, error) {
	d, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, domain.Validation("an inactive domain cannot be the default")
	}
	if err := s.Store.SetDefaultDomain(ctx, d.ID); err != nil {
		return nil, err
	}
	d.IsDefault = true
	return d, nil
}

// Update changes the active flag and/or description. The default domain
// cannot be deactivated.
func (s *DomainService) Update(ctx context.Context, name string, isActive *bool, description *string) (*domain.Domain, error) {
	d, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if isActive != nil && !*isActive && d.IsDefault {
		return nil, domain.Validation("the default domain cannot be deactivated")
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if len(trimmed) > MaxDescriptionLen {
			return nil, domain.Validation("description is too long")
		}
		description = &trimmed
	}
	return s.Store.UpdateDomain(ctx, d.ID, isActive, description)
}

// Delete removes a domain that is neither default nor owns links.
func (s *DomainService) Delete(ctx context.Context, name string) error {
	tr := otel.Tracer("services/DomainService")
	ctx, span := tr.Start(ctx, "Delete", trace.WithAttributes(attribute.String("domain.name", name)))
	defer span.End()

	d, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if d.IsDefault {
		return domain.Validation("cannot delete the default domain; set another default first")
	}
	n, err := s.Store.CountDomainLinks(ctx, d.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflict(fmt.Sprintf("cannot delete domain with %d existing links", n))
	}
	return s.Store.DeleteDomain(ctx, d.ID)
}
