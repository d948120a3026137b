package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-bookshelf/internal/model"
)

// TokenIssuer signs and verifies HS256 tokens for one token kind. Access and
// refresh tokens each get their own issuer with their own secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenIssuer)

// WithClock overrides the time source used for issuing and for expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(i *TokenIssuer) {
		i.now = now
	}
}

func NewTokenIssuer(secret string, ttl time.Duration, opts ...TokenOption) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	issuer := &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}

	return issuer, nil
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for subject that expires ttl from now.
func (i *TokenIssuer) Issue(subject string) (string, model.AuthClaims, error) {
	if subject == "" {
		return "", model.AuthClaims{}, errors.New("token subject is required")
	}

	now := i.now().UTC()
	registered := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, registered).SignedString(i.secret)
	if err != nil {
		return "", model.AuthClaims{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, toAuthClaims(registered), nil
}

// Verify checks signature and expiry. Expired tokens fail with
// model.ErrTokenExpired, everything else with model.ErrTokenInvalid.
func (i *TokenIssuer) Verify(tokenString string) (model.AuthClaims, error) {
	var registered jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &registered,
		func(token *jwt.Token) (any, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.AuthClaims{}, fmt.Errorf("%w: %w", model.ErrTokenExpired, err)
		}
		return model.AuthClaims{}, fmt.Errorf("%w: %w", model.ErrTokenInvalid, err)
	}

	if registered.Subject == "" {
		return model.AuthClaims{}, fmt.Errorf("%w: missing subject", model.ErrTokenInvalid)
	}

	return toAuthClaims(registered), nil
}

func toAuthClaims(registered jwt.RegisteredClaims) model.AuthClaims {
	claims := model.AuthClaims{
		UserID:  registered.Subject,
		TokenID: registered.ID,
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims
}
