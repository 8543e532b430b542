package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"hub/config"
	"hub/internal/domain/entity"
	"hub/internal/infra/auth"
	"hub/internal/infra/persistence/memdoc"
	"hub/internal/infra/snapshot"
	"hub/internal/usecase"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Store: &config.StoreConfig{PageSize: 50},
		Auth:  &config.AuthConfig{SecretMode: config.SecretModePlain},
	}
}

// storeFixtures holds the shared backends of the store tests.
type storeFixtures struct {
	remote    *memdoc.Store
	snapshots *snapshot.Store
	cfg       *config.Config
	logger    *slog.Logger
}

func newStoreFixtures(t *testing.T) *storeFixtures {
	t.Helper()

	snapshots, err := snapshot.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = snapshots.Close() })

	return &storeFixtures{
		remote:    memdoc.New(memdoc.WithClock(func() time.Time { return testNow })),
		snapshots: snapshots,
		cfg:       newTestConfig(),
		logger:    newDiscardLogger(),
	}
}

func (f *storeFixtures) userStore(t *testing.T) usecase.UserStore {
	t.Helper()

	store := NewUserStore(UserStoreParams{
		Remote:    f.remote,
		Snapshots: f.snapshots,
		Verifier:  auth.NewPlainVerifier(),
		Config:    f.cfg,
		Logger:    f.logger,
	})
	t.Cleanup(store.Close)

	return store
}

func (f *storeFixtures) productStore(t *testing.T) usecase.ProductStore {
	t.Helper()

	store := NewProductStore(ProductStoreParams{
		Remote:    f.remote,
		Snapshots: f.snapshots,
		Config:    f.cfg,
		Logger:    f.logger,
	})
	t.Cleanup(store.Close)

	return store
}

func (f *storeFixtures) postStore(t *testing.T) usecase.PostStore {
	t.Helper()

	store := NewPostStore(PostStoreParams{
		Remote:    f.remote,
		Snapshots: f.snapshots,
		Config:    f.cfg,
		Logger:    f.logger,
	})
	t.Cleanup(store.Close)

	return store
}

// putActor stores an account document under a fixed id.
func (f *storeFixtures) putActor(actor entity.Actor) entity.Actor {
	if actor.ActivationStatus == "" {
		actor.ActivationStatus = entity.ActivationActive
	}
	f.remote.Put(usersCollection, actor.ID, actor.Fields())

	return actor
}

func admin() entity.Actor {
	return entity.Actor{
		ID:       "admin001",
		Username: "webmaster",
		Email:    "admin@snuli.com",
		Password: "admin123",
		Role:     entity.RoleWebmaster,
		IsActive: true,
	}
}

func franchise(id string, perms entity.Permissions) entity.Actor {
	return entity.Actor{
		ID:            id,
		Username:      id,
		Email:         id + "@franchise.test",
		Password:      "secret-" + id,
		Role:          entity.RoleFranchise,
		IsActive:      true,
		FranchiseName: "Franchise " + id,
		Permissions:   perms,
	}
}

func customer(id string) entity.Actor {
	return entity.Actor{
		ID:       id,
		Username: id,
		Email:    id + "@customer.test",
		Password: "secret-" + id,
		Role:     entity.RoleCustomer,
		IsActive: true,
	}
}

func loadUsers(t *testing.T, store usecase.UserStore) {
	t.Helper()
	require.NoError(t, store.Load(context.Background()))
}

func ptr[T any](v T) *T {
	return &v
}
