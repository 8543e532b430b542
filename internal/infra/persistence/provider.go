// Package persistence selects the remote document store backing the entity
// stores.
package persistence

import (
	"context"
	"log/slog"

	"hub/config"
	"hub/internal/domain/repository"
	"hub/internal/infra/persistence/firestore"
	"hub/internal/infra/persistence/memdoc"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// DocumentStoreParams holds dependencies for the DocumentStore, injected by Fx
type DocumentStoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewDocumentStore creates a DocumentStore based on configuration
func NewDocumentStore(params DocumentStoreParams) (repository.DocumentStore, error) {
	cfg := params.Config.DocumentStore
	logger := params.Logger

	provider := config.ProviderMemory
	if cfg != nil && cfg.Provider != "" {
		provider = cfg.Provider
	}

	var store repository.DocumentStore

	switch provider {
	case config.ProviderMemory:
		logger.Warn("Using in-memory document store, data is lost on shutdown")

		store = memdoc.New()

	case config.ProviderFirestore:
		client, err := firestore.NewClient(params.Ctx, cfg, logger)
		if err != nil {
			return nil, err
		}

		store = firestore.NewStore(client, logger)

	default:
		return nil, errors.Errorf("unknown document store provider: %s", provider)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing DocumentStore", slog.String("provider", provider))

			return store.Close()
		},
	})

	return store, nil
}

// Module provides the document store FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewDocumentStore),
)
