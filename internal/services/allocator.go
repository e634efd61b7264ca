package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-url-shortener/internal/domain"
	"github.com/tbourn/go-url-shortener/internal/shortcode"
)

// DefaultAllocateAttempts caps collision retries in Allocate.
const DefaultAllocateAttempts = 10

// errKeyspace marks allocation exhaustion; repeated collisions at twelve
// random characters point to a bug or hostile load, not contention.
var errKeyspace = errors.New("code allocation exhausted")

// CodeGenerator yields candidate codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// Allocator picks codes that are free within a domain. The existence check
// is advisory; the unique (domain_id, code) index decides, and a lost race
// surfaces from CreateLink as a conflict.
type Allocator struct {
	Links       LinkStore
	Gen         CodeGenerator
	MaxAttempts int
}

// NewAllocator returns an Allocator using the crypto/rand generator.
func NewAllocator(links LinkStore) *Allocator {
	return &Allocator{Links: links, Gen: shortcode.NewGenerator(), MaxAttempts: DefaultAllocateAttempts}
}

// Allocate returns a generated code not yet used in domainID.
func (a *Allocator) Allocate(ctx context.Context, domainID int64) (string, error) {
	tr := otel.Tracer("services/Allocator")
	ctx, span := tr.Start(ctx, "Allocate", trace.WithAttributes(attribute.Int64("domain.id", domainID)))
	defer span.End()

	attempts := a.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultAllocateAttempts
	}
	for i := 0; i < attempts; i++ {
		code, err := a.Gen.Generate()
		if err != nil {
			return "", domain.Internal("generate code", err)
		}
		taken, err := a.Links.LinkExists(ctx, domainID, code)
		if err != nil {
			return "", err
		}
		if !taken {
			span.SetAttributes(attribute.Int("allocate.attempts", i+1))
			return code, nil
		}
	}
	return "", domain.Internal("failed to allocate a unique code",
		fmt.Errorf("%w after %d attempts", errKeyspace, attempts))
}

// ValidateCustomCode rejects malformed or reserved custom codes. It never
// touches the store.
func (a *Allocator) ValidateCustomCode(code string) error {
	if err := shortcode.ValidateCustom(code); err != nil {
		return domain.Validation(err.Error())
	}
	return nil
}

// Reserve validates a custom code and checks it is free in domainID. A
// taken code is a conflict and is not retried.
func (a *Allocator) Reserve(ctx context.Context, domainID int64, code string) error {
	if err := a.ValidateCustomCode(code); err != nil {
		return err
	}
	taken, err := a.Links.LinkExists(ctx, domainID, code)
	if err != nil {
		return err
	}
	if taken {
		return domain.Conflict(fmt.Sprintf("code %q is already taken", code))
	}
	return nil
}
