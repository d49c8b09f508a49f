package service

import "time"

// TokenClaims is what a verified bearer token tells us about its holder.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, time-limited bearer tokens.
type TokenService interface {
	// Issue signs a token for subject that expires ttl from now.
	Issue(subject string, ttl time.Duration) (string, error)

	// Verify checks the signature and expiry of a token and returns its claims.
	Verify(token string) (*TokenClaims, error)
}
