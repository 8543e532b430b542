package auth

import (
	"golang.org/x/crypto/bcrypt"

	"hub/internal/domain/service"
)

// bcryptVerifier stores secrets as bcrypt hashes.
type bcryptVerifier struct {
	cost int
}

// NewBcryptVerifier is the constructor for bcryptVerifier.
// A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewBcryptVerifier(cost int) service.SecretVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptVerifier{cost: cost}
}

// Seal generates a salted hash from a plaintext secret using bcrypt.
func (h *bcryptVerifier) Seal(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)

	return string(bytes), err
}

// Check compares a plaintext secret with a bcrypt hash.
func (h *bcryptVerifier) Check(secret, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
}
