// Package identity resolves the calling principal of an HTTP request.
//
// With a secret configured, callers present a bearer JWT whose "sub" claim
// is the principal. Without one, the X-Principal header is trusted as-is.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Header carries the principal when no secret is configured.
const Header = "X-Principal"

// Anonymous is the principal of a request that names none.
const Anonymous = "anonymous"

type ctxKey string

const principalKey ctxKey = "principal"

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p string) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the principal stored by WithPrincipal.
func FromContext(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(principalKey).(string)
	return p, ok
}

// Issue signs a token for principal valid for ttl.
func Issue(secret []byte, principal string, now time.Time, ttl time.Duration) (string, error) {
	if principal == "" {
		return "", errors.New("principal is required")
	}
	claims := jwt.RegisteredClaims{
		Subject:   principal,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse verifies token and returns its subject.
func Parse(secret []byte, token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("parse token: missing sub claim")
	}
	return claims.Subject, nil
}

// Middleware attaches the caller's principal to the request context.
type Middleware struct {
	secret []byte
}

// New creates a Middleware. An empty secret selects the trusted-header mode.
func New(secret string) Middleware {
	return Middleware{secret: []byte(secret)}
}

// Wrap rejects requests with a missing or invalid token when a secret is
// configured.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.resolve(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintf(w, "{%q:%q}\n", "error", err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (m Middleware) resolve(r *http.Request) (string, error) {
	if len(m.secret) == 0 {
		if p := strings.TrimSpace(r.Header.Get(Header)); p != "" {
			return p, nil
		}
		return Anonymous, nil
	}
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing token")
	}
	p, err := Parse(m.secret, strings.TrimPrefix(h, "Bearer "))
	if err != nil {
		return "", errors.New("invalid token")
	}
	return p, nil
}
