package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims for the session token.
// The subject is the actor id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ActorID returns the token subject.
func (c *Claims) ActorID() string {
	return c.Subject
}

// TokenService issues and validates the bearer tokens of the HTTP bridge.
type TokenService interface {
	// Issue creates a token for the actor and returns its expiry.
	Issue(actorID, role string) (token string, expiresAt time.Time, err error)

	// Validate checks the signature and expiry of a token.
	Validate(token string) (*Claims, error)
}
