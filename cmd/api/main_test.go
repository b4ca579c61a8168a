package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"tarantula-log/internal/adapters/auth/jwtauth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestBackfill_RequiresDatabase(t *testing.T) {
	t.Setenv("AUTH_DEV_MODE", "true")
	t.Setenv("DB_DSN", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"backfill"})
	if err := cmd.Execute(); !errors.Is(err, errNoDatabase) {
		t.Fatalf("expected errNoDatabase, got %v", err)
	}
}

func TestToken_IssuesVerifiableToken(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("DB_DSN", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--user", "u1", "--email", "u1@example.com"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	v, err := jwtauth.NewVerifier(testSecret, "tarantula-log")
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	claims, err := v.Verify(context.Background(), strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "u1@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRoot_InvalidConfigFails(t *testing.T) {
	t.Setenv("AUTH_DEV_MODE", "false")
	t.Setenv("AUTH_JWT_SECRET", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"db", "migrate"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected config validation error")
	}
}
