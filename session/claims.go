package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is an unverified peek at the access token's registered claims,
// surfaced to session views (e.g. "session expires at"). It must never feed
// an authorization decision: the client holds no verification keys, and the
// server re-validates every request.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Claims parses the current access token without verifying its signature.
// The second return is false when no token is held or it is not a
// well-formed JWT (the API is free to issue opaque tokens).
func (s *Store) Claims() (TokenClaims, bool) {
	token := s.AccessToken()
	if token == "" {
		return TokenClaims{}, false
	}

	parser := jwt.NewParser()
	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return TokenClaims{}, false
	}

	out := TokenClaims{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, true
}
