package auth

import (
	"testing"

	"hub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier_SealAndCheck(t *testing.T) {
	verifier := NewBcryptVerifier(bcrypt.MinCost)

	hash, err := verifier.Seal("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.True(t, verifier.Check("admin123", hash))
	assert.False(t, verifier.Check("admin124", hash))
	assert.False(t, verifier.Check("admin123", "admin123"))
}

func TestBcryptVerifier_InvalidCostFallsBack(t *testing.T) {
	verifier := NewBcryptVerifier(99).(*bcryptVerifier)
	assert.Equal(t, bcrypt.DefaultCost, verifier.cost)
}

func TestPlainVerifier(t *testing.T) {
	verifier := NewPlainVerifier()

	sealed, err := verifier.Seal("admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin123", sealed)
	assert.True(t, verifier.Check("admin123", sealed))
	assert.False(t, verifier.Check("Admin123", sealed))
}

func TestNewSecretVerifier(t *testing.T) {
	tests := []struct {
		name    string
		auth    *config.AuthConfig
		want    any
		wantErr bool
	}{
		{name: "default is plain", auth: nil, want: plainVerifier{}},
		{name: "plain", auth: &config.AuthConfig{SecretMode: "plain"}, want: plainVerifier{}},
		{name: "bcrypt", auth: &config.AuthConfig{SecretMode: "bcrypt", BcryptCost: bcrypt.MinCost}, want: &bcryptVerifier{cost: bcrypt.MinCost}},
		{name: "unknown", auth: &config.AuthConfig{SecretMode: "argon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSecretVerifier(&config.Config{Auth: tt.auth})
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
