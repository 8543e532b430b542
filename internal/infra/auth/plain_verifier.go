package auth

import (
	"crypto/subtle"

	"hub/internal/domain/service"
)

// plainVerifier keeps secrets exactly as written. It exists for parity with
// accounts created before hashing was configurable.
type plainVerifier struct{}

// NewPlainVerifier is the constructor for plainVerifier.
func NewPlainVerifier() service.SecretVerifier {
	return plainVerifier{}
}

func (plainVerifier) Seal(secret string) (string, error) {
	return secret, nil
}

func (plainVerifier) Check(secret, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(secret), []byte(stored)) == 1
}
