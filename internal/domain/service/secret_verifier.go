// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// SecretVerifier prepares account secrets for storage and checks a presented
// secret against the stored form.
type SecretVerifier interface {
	// Seal returns the form of secret written to the users collection.
	Seal(secret string) (string, error)

	// Check reports whether secret matches the stored form.
	Check(secret, stored string) bool
}
