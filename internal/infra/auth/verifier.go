package auth

import (
	"github.com/pkg/errors"

	"hub/config"
	"hub/internal/domain/service"
)

// NewSecretVerifier selects the verifier named by auth.secretMode.
func NewSecretVerifier(cfg *config.Config) (service.SecretVerifier, error) {
	mode := config.SecretModePlain
	cost := 0
	if cfg.Auth != nil {
		if cfg.Auth.SecretMode != "" {
			mode = cfg.Auth.SecretMode
		}
		cost = cfg.Auth.BcryptCost
	}

	switch mode {
	case config.SecretModePlain:
		return NewPlainVerifier(), nil
	case config.SecretModeBcrypt:
		return NewBcryptVerifier(cost), nil
	default:
		return nil, errors.Errorf("unknown secret mode: %s", mode)
	}
}
