package jwtauth

import (
	"context"
	"testing"
	"time"

	"tarantula-log/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestVerify_RoundTrip(t *testing.T) {
	v, err := NewVerifier(secret, "tarantula-log")
	require.NoError(t, err)

	tok, err := v.Issue("owner-1", "keeper@example.com", time.Hour)
	require.NoError(t, err)

	c, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "owner-1", Email: "keeper@example.com"}, c)
}

func TestVerify_Rejects(t *testing.T) {
	v, err := NewVerifier(secret, "tarantula-log")
	require.NoError(t, err)

	other, err := NewVerifier(secret, "someone-else")
	require.NoError(t, err)
	wrongIssuer, err := other.Issue("owner-1", "", time.Hour)
	require.NoError(t, err)

	wrongKey, err := func() (string, error) {
		w, _ := NewVerifier("ffffffffffffffffffffffffffffffff", "tarantula-log")
		return w.Issue("owner-1", "", time.Hour)
	}()
	require.NoError(t, err)

	expired, err := v.Issue("owner-1", "", -time.Minute)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "owner-1", Issuer: "tarantula-log", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.jwt",
		"wrong issuer": wrongIssuer,
		"wrong key":    wrongKey,
		"expired":      expired,
		"alg none":     none,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tok)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier("  ", "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
