package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry peeks at the exp claim of the stored access token without
// verifying the signature. The client holds no signing key; this is log
// signal only, never an authorization decision.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
