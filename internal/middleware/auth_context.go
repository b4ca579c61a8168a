package middleware

import (
	"context"
	"net/http"
	"strings"

	"tarantula-log/internal/platform/logger"
	"tarantula-log/internal/ports/auth"
)

// DebugUserHeader solo se respeta sin verifier (modo dev).
const DebugUserHeader = "X-Debug-User-ID"

type claimsCtxKey struct{}

// AuthContext resuelve el owner del request:
// - con verifier, desde el Bearer token; un token inválido deja el request anónimo.
// - sin verifier, desde X-Debug-User-ID.
// No corta el request: cada handler decide si exige owner (401).
func AuthContext(verifier auth.AuthVerifier, log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				if uid := strings.TrimSpace(r.Header.Get(DebugUserHeader)); uid != "" {
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), auth.Claims{UserID: uid})))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil || strings.TrimSpace(claims.UserID) == "" {
				fields := map[string]any{"path": r.URL.Path}
				if err != nil {
					fields["error"] = err.Error()
				}
				log.Debug("session token rejected", fields)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsCtxKey{}).(auth.Claims)
	return c, ok
}

// OwnerID devuelve el usuario autenticado, o false si el request es anónimo.
func OwnerID(ctx context.Context) (string, bool) {
	c, ok := GetClaims(ctx)
	if !ok {
		return "", false
	}
	uid := strings.TrimSpace(c.UserID)
	return uid, uid != ""
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
