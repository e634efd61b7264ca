package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// tokenBytes is the entropy of generated API tokens.
const tokenBytes = 32

// AuthService validates bearer tokens against their stored hashes.
type AuthService struct {
	Tokens TokenStore
	Now    func() time.Time
}

// NewAuthService wires an AuthService.
func NewAuthService(tokens TokenStore) *AuthService {
	return &AuthService{Tokens: tokens, Now: time.Now}
}

// HashToken returns the hex SHA-256 digest stored for token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Authenticate checks token and records its use. Unknown and revoked
// tokens are Unauthorized; storage failures pass through.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.APIToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.Unauthorized("missing bearer token")
	}
	t, err := s.Tokens.TokenByHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized("invalid or revoked token")
		}
		return nil, err
	}
	if t.Revoked() {
		return nil, domain.Unauthorized("invalid or revoked token")
	}

	now := s.now()
	if err := s.Tokens.TouchToken(ctx, t.ID, now); err != nil {
		log.Warn().Err(err).Int64("token_id", t.ID).Msg("failed to record token use")
	} else {
		t.LastUsedAt = &now
	}
	return t, nil
}

// Issue creates a token named name and returns the plaintext once. Only the
// hash is stored.
func (s *AuthService) Issue(ctx context.Context, name string) (string, *domain.APIToken, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return "", nil, domain.Validation("token name must be 1 to 100 characters")
	}
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", nil, domain.Internal("generate token", err)
	}
	plain := base64.RawURLEncoding.EncodeToString(b)
	t := &domain.APIToken{Name: name, TokenHash: HashToken(plain)}
	if err := s.Tokens.CreateToken(ctx, t); err != nil {
		return "", nil, err
	}
	return plain, t, nil
}

// Revoke disables a token by id. Revoking twice is not an error.
func (s *AuthService) Revoke(ctx context.Context, id int64) error {
	return s.Tokens.RevokeToken(ctx, id, s.now())
}

// List returns all tokens without their hashes.
func (s *AuthService) List(ctx context.Context) ([]domain.APIToken, error) {
	return s.Tokens.ListTokens(ctx)
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
