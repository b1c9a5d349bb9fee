package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry returns the exp claim of a JWT session token. The signature is
// not checked: the client only needs a hint that the backend will reject
// the token. Opaque tokens and JWTs without exp report ok=false.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// TokenExpired reports whether token carries an exp claim at or before now.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && !now.Before(exp)
}
