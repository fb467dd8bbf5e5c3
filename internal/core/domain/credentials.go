package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialPair is the access/refresh token pair issued by /api/token/.
// Both values are opaque to the client. A stored pair is either complete or
// absent.
type CredentialPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IsZero reports whether neither credential is held.
func (c CredentialPair) IsZero() bool {
	return c.Access == "" && c.Refresh == ""
}

// Complete reports whether both credentials are held.
func (c CredentialPair) Complete() bool {
	return c.Access != "" && c.Refresh != ""
}

// LoginCredentials is the body posted to /api/token/.
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccessExpiresAt decodes the exp claim of the access credential without
// verifying its signature; the client only uses it for display and logging.
func (c CredentialPair) AccessExpiresAt() (time.Time, bool) {
	if c.Access == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(c.Access, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
