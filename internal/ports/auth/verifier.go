package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthVerifier verifica un token de sesión y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
