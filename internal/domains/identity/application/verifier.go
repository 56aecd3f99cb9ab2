package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nexyn/foods-api/internal/domains/identity/domain"
	"github.com/nexyn/foods-api/internal/domains/identity/ports"
)

// DefaultTokenTTL matches the issuance window of the marketplace tokens.
const DefaultTokenTTL = time.Hour

// Claims carries the identity assertion embedded in a token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. The signing secret is
// process-wide configuration injected once at construction and never mutated.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a TokenService.
type Option func(*TokenService)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *TokenService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService wires a token service around the given signing secret.
func NewTokenService(secret []byte, opts ...Option) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	s := &TokenService{secret: secret, ttl: DefaultTokenTTL, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Issue mints a signed token asserting the given identity.
func (s *TokenService) Issue(email, name string) (string, error) {
	principal, err := domain.NewPrincipal(email)
	if err != nil {
		return "", err
	}
	now := s.now()
	claims := Claims{
		Email: principal.String(),
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks structure, signature, and expiry, then returns the embedded
// principal exactly as encoded at issuance.
func (s *TokenService) Verify(credential string) (domain.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(credential, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", ports.ErrInvalidCredential
	}
	principal, err := domain.NewPrincipal(claims.Email)
	if err != nil {
		return "", ports.ErrInvalidCredential
	}
	return principal, nil
}

var (
	_ ports.Verifier = (*TokenService)(nil)
	_ ports.Issuer   = (*TokenService)(nil)
)
