// Package token reads claims out of bearer tokens without verifying
// them. The client never holds the signing secret; it only needs the
// expiry to know when a stored credential has gone stale.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
}

// Peek decodes the claims of a JWT without signature verification.
// Returns an error for tokens that are not JWTs at all.
func Peek(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Expired reports whether the token carries an exp claim that has
// passed. Opaque (non-JWT) tokens and tokens without an expiry are
// treated as still usable; the server remains the authority.
func Expired(token string, now time.Time) bool {
	claims, err := Peek(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return now.After(claims.ExpiresAt.Time)
}
