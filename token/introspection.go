// Package token reads the claims of the backend's JWTs without verifying
// them. The client never holds the signing secret, so the result is only used
// for diagnostics (who is logged in, when the token runs out) and never for an
// authorization decision.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var ErrEmptyToken = errors.New("empty token")

const typeRefresh = "refresh"

// Introspection is the unverified view of an access or refresh token.
type Introspection struct {
	Subject   string    // Backend user ID
	Type      string    // "refresh" for refresh tokens, empty for access tokens
	ExpiresAt time.Time // Zero when the token carries no exp claim
}

// Introspect decodes rawToken's claims without checking its signature.
func Introspect(rawToken string) (*Introspection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrEmptyToken
	}

	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, fmt.Errorf("[token Introspect] %w", err)
	}

	info := &Introspection{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	info.Type, _ = claims["type"].(string)
	return info, nil
}

func (i *Introspection) IsRefresh() bool {
	return i != nil && i.Type == typeRefresh
}

// Expired reports whether exp has passed. Tokens without exp never expire.
func (i *Introspection) Expired() bool {
	if i == nil || i.ExpiresAt.IsZero() {
		return false
	}
	return !NowTimeFunc().Before(i.ExpiresAt)
}

// ExpiresIn is the time left before exp, zero once expired or when unknown.
func (i *Introspection) ExpiresIn() time.Duration {
	if i == nil || i.ExpiresAt.IsZero() {
		return 0
	}
	d := i.ExpiresAt.Sub(NowTimeFunc())
	if d < 0 {
		return 0
	}
	return d
}
