package resolver

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSignature reports a signature that is malformed, expired, or
// issued for another asset.
var ErrInvalidSignature = errors.New("invalid asset signature")

// Signer issues and verifies short-lived signatures for asset tokens.
type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewSigner returns a Signer using HMAC-SHA256 with secret.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid signature ttl %s", ttl)
	}
	return &Signer{key: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Sign returns a signature granting access to token until the TTL elapses.
func (s *Signer) Sign(token string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   token,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign asset: %w", err)
	}
	return signed, nil
}

// Verify checks that sig is a valid, unexpired signature for token.
func (s *Signer) Verify(sig, token string) error {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(sig, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithSubject(token),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}
