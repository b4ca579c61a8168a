package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tarantula-log/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotConfigured = errors.New("jwt verifier not configured")

// sessionClaims: sub = owner id.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Verifier implementa auth.AuthVerifier con tokens HS256.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

var _ auth.AuthVerifier = (*Verifier)(nil)

func NewVerifier(secret, issuer string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrNotConfigured
	}
	return &Verifier{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		now:    time.Now,
	}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	sub := strings.TrimSpace(c.Subject)
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing subject", auth.ErrInvalidToken)
	}

	return auth.Claims{
		UserID: sub,
		Email:  strings.TrimSpace(c.Email),
	}, nil
}

// Issue firma un token de sesión. Lo usa el comando `token` para desarrollo y los tests.
func (v *Verifier) Issue(userID, email string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("user id required")
	}
	now := v.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
