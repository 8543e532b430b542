package impl

import (
	"context"
	"fmt"
	"testing"

	"hub/config"
	"hub/internal/domain/entity"
	domainerrors "hub/internal/domain/errors"
	"hub/internal/domain/repository"
	"hub/internal/infra/persistence/memdoc"
	"hub/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore_Load_SeedsAdministratorOnce(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.cfg.Seed = &config.SeedConfig{Admin: &config.SeedAccount{
		Username: "webmaster",
		Email:    "admin@snuli.com",
		Password: "admin123",
	}}
	store := fx.userStore(t)

	loadUsers(t, store)
	loadUsers(t, store)

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, entity.RoleWebmaster, all[0].Role)
	assert.True(t, all[0].IsActive)
	assert.Equal(t, 1, fx.remote.Calls(memdoc.OpInsert))

	doc, ok := fx.remote.Doc(usersCollection, all[0].ID)
	require.True(t, ok)
	assert.Equal(t, "webmaster", doc.Fields["username"])
	assert.Equal(t, testNow, doc.Fields["createdAt"])
}

func TestUserStore_Load_FailureKeepsCollection(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.putActor(admin())
	fx.putActor(customer("cu000001"))
	store := fx.userStore(t)
	loadUsers(t, store)

	fx.remote.FailNext(memdoc.OpGet, errors.New("connection reset"))
	err := store.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrLoadFailed)
	assert.Len(t, store.All(), 2)

	status := store.Status()
	assert.False(t, status.Loading)
	require.Error(t, status.LastError)
	assert.Contains(t, status.ErrorMessage(), "connection reset")

	loadUsers(t, store)
	assert.NoError(t, store.Status().LastError)
}

func TestUserStore_Load_PreconditionFallsBackToSnapshot(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.putActor(admin())
	loadUsers(t, fx.userStore(t))

	// A second runtime sharing the snapshot slot while the remote store refuses.
	fx.remote.FailNext(memdoc.OpGet, errors.Wrap(repository.ErrPreconditionFailed, "persistence lock held"))
	restarted := fx.userStore(t)
	err := restarted.Load(context.Background())

	assert.ErrorIs(t, err, domainerrors.ErrOfflineCacheUnavailable)
	require.Len(t, restarted.All(), 1)
	assert.Equal(t, "webmaster", restarted.All()[0].Username)
}

func TestUserStore_Create(t *testing.T) {
	fx := newStoreFixtures(t)
	root := fx.putActor(admin())
	store := fx.userStore(t)
	loadUsers(t, store)

	perms := entity.Permissions{CanAddProducts: true}
	created, err := store.Create(context.Background(), root, usecase.CreateActorInput{
		Username:      "fr000001",
		Email:         "fr000001@franchise.test",
		Password:      "franchise-pass",
		Role:          entity.RoleFranchise,
		FranchiseName: "North",
		Permissions:   &perms,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, testNow, created.CreatedAt)
	assert.Equal(t, entity.ActivationActive, created.ActivationStatus)
	assert.True(t, created.Permissions.CanAddProducts)
	assert.Equal(t, created.ID, store.All()[0].ID, "new accounts are prepended")

	found, ok := store.FindByIdentifier("  FR000001@franchise.test ")
	require.True(t, ok)
	assert.Equal(t, created.ID, found.ID)
}

func TestUserStore_Create_Rejections(t *testing.T) {
	fx := newStoreFixtures(t)
	root := fx.putActor(admin())
	operator := fx.putActor(franchise("fr000001", entity.Permissions{CanAddProducts: true}))
	store := fx.userStore(t)
	loadUsers(t, store)

	valid := usecase.CreateActorInput{
		Username: "newbie",
		Email:    "newbie@customer.test",
		Password: "newbie-pass",
		Role:     entity.RoleCustomer,
	}

	tests := []struct {
		name    string
		by      entity.Actor
		input   func() usecase.CreateActorInput
		wantErr error
	}{
		{
			name:    "franchise operator",
			by:      operator,
			input:   func() usecase.CreateActorInput { return valid },
			wantErr: domainerrors.ErrPermissionDenied,
		},
		{
			name:    "anonymous",
			by:      entity.Actor{},
			input:   func() usecase.CreateActorInput { return valid },
			wantErr: domainerrors.ErrPermissionDenied,
		},
		{
			name: "invalid email",
			by:   root,
			input: func() usecase.CreateActorInput {
				in := valid
				in.Email = "not-an-email"

				return in
			},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name: "taken username",
			by:   root,
			input: func() usecase.CreateActorInput {
				in := valid
				in.Username = "WEBMASTER"

				return in
			},
			wantErr: domainerrors.ErrActorAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(context.Background(), tt.by, tt.input())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, fx.remote.Calls(memdoc.OpInsert))
}

func TestUserStore_Update_MergesChanges(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.putActor(customer("cu000001"))
	store := fx.userStore(t)
	loadUsers(t, store)

	avatar := "https://cdn.test/a.png"
	require.NoError(t, store.Update(context.Background(), customer("cu000001"), "cu000001", usecase.ActorChanges{Avatar: &avatar}))

	got, ok := store.FindByID("cu000001")
	require.True(t, ok)
	assert.Equal(t, avatar, got.Avatar)
	assert.Equal(t, "cu000001", got.Username)

	doc, _ := fx.remote.Doc(usersCollection, "cu000001")
	assert.Equal(t, avatar, doc.Fields["avatar"])
	assert.Equal(t, testNow, doc.Fields["updatedAt"])
}

func TestUserStore_Update_RemoteFailureLeavesLocalState(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.putActor(customer("cu000001"))
	store := fx.userStore(t)
	loadUsers(t, store)

	fx.remote.FailNext(memdoc.OpUpdate, errors.New("deadline exceeded"))
	avatar := "https://cdn.test/a.png"
	err := store.Update(context.Background(), customer("cu000001"), "cu000001", usecase.ActorChanges{Avatar: &avatar})

	assert.ErrorIs(t, err, domainerrors.ErrWriteFailed)
	got, _ := store.FindByID("cu000001")
	assert.Empty(t, got.Avatar)
	assert.Error(t, store.Status().LastError)
}

func TestUserStore_Update_RejectsTakenIdentifier(t *testing.T) {
	fx := newStoreFixtures(t)
	alice := fx.putActor(customer("alice"))
	bob := fx.putActor(customer("bob"))
	store := fx.userStore(t)
	loadUsers(t, store)

	tests := []struct {
		name    string
		changes usecase.ActorChanges
	}{
		{name: "username", changes: usecase.ActorChanges{Username: ptr("alice")}},
		{name: "username with spaces and case", changes: usecase.ActorChanges{Username: ptr("  ALICE ")}},
		{name: "email", changes: usecase.ActorChanges{Email: ptr(alice.Email)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Update(context.Background(), bob, bob.ID, tt.changes)

			assert.ErrorIs(t, err, domainerrors.ErrActorAlreadyExists)
			got, _ := store.FindByID(bob.ID)
			assert.Equal(t, "bob", got.Username)
			assert.Equal(t, bob.Email, got.Email)
		})
	}
	assert.Zero(t, fx.remote.Calls(memdoc.OpUpdate))

	found, ok := store.FindByIdentifier("alice")
	require.True(t, ok)
	assert.Equal(t, alice.ID, found.ID)
}

func TestUserStore_Update_KeepsOwnIdentifier(t *testing.T) {
	fx := newStoreFixtures(t)
	bob := fx.putActor(customer("bob"))
	store := fx.userStore(t)
	loadUsers(t, store)

	require.NoError(t, store.Update(context.Background(), bob, bob.ID, usecase.ActorChanges{
		Username: ptr(" Bob "),
		Email:    ptr(bob.Email),
	}))

	got, _ := store.FindByID(bob.ID)
	assert.Equal(t, "Bob", got.Username)
	doc, _ := fx.remote.Doc(usersCollection, bob.ID)
	assert.Equal(t, "Bob", doc.Fields["username"])
}

func TestUserStore_Update_Permissions(t *testing.T) {
	active := false
	status := entity.ActivationInactive

	tests := []struct {
		name    string
		by      entity.Actor
		target  string
		changes usecase.ActorChanges
		wantErr error
	}{
		{name: "self edits profile", by: customer("cu000001"), target: "cu000001", changes: usecase.ActorChanges{Avatar: ptr("a.png")}},
		{name: "admin edits anyone", by: admin(), target: "cu000001", changes: usecase.ActorChanges{IsActive: &active}},
		{name: "other account", by: customer("cu000002"), target: "cu000001", changes: usecase.ActorChanges{Avatar: ptr("a.png")}, wantErr: domainerrors.ErrPermissionDenied},
		{name: "no actor", target: "cu000001", changes: usecase.ActorChanges{Avatar: ptr("a.png")}, wantErr: domainerrors.ErrPermissionDenied},
		{name: "self grants permissions", by: customer("cu000001"), target: "cu000001", changes: usecase.ActorChanges{Permissions: &entity.Permissions{CanAddProducts: true}}, wantErr: domainerrors.ErrPermissionDenied},
		{name: "self reactivates", by: customer("cu000001"), target: "cu000001", changes: usecase.ActorChanges{IsActive: &active}, wantErr: domainerrors.ErrPermissionDenied},
		{name: "self changes activation", by: customer("cu000001"), target: "cu000001", changes: usecase.ActorChanges{ActivationStatus: &status}, wantErr: domainerrors.ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newStoreFixtures(t)
			fx.putActor(admin())
			fx.putActor(customer("cu000001"))
			fx.putActor(customer("cu000002"))
			store := fx.userStore(t)
			loadUsers(t, store)

			err := store.Update(context.Background(), tt.by, tt.target, tt.changes)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, fx.remote.Calls(memdoc.OpUpdate))

				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, fx.remote.Calls(memdoc.OpUpdate))
		})
	}
}

func TestUserStore_Load_ReadsBeyondPageSize(t *testing.T) {
	fx := newStoreFixtures(t)
	total := fx.cfg.Store.PageSize + 11
	for i := range total {
		fx.putActor(customer(fmt.Sprintf("zz%06d", i)))
	}
	store := fx.userStore(t)
	loadUsers(t, store)

	assert.Len(t, store.All(), total)
	last := fmt.Sprintf("zz%06d", total-1)
	found, ok := store.FindByIdentifier(last)
	require.True(t, ok)
	assert.Equal(t, last, found.ID)

	gate := fx.sessionGate(store)
	actor, err := gate.Authenticate(context.Background(), last, "secret-"+last)
	require.NoError(t, err)
	assert.Equal(t, last, actor.ID)

	require.NoError(t, store.Follow(context.Background(), "zz000000", last))
	assert.True(t, store.IsFollowing("zz000000", last))
}

func TestUserStore_ToggleStatus(t *testing.T) {
	fx := newStoreFixtures(t)
	root := fx.putActor(admin())
	fx.putActor(customer("cu000001"))
	store := fx.userStore(t)
	loadUsers(t, store)

	require.NoError(t, store.ToggleStatus(context.Background(), root, "cu000001"))
	got, _ := store.FindByID("cu000001")
	assert.False(t, got.IsActive)
	assert.Equal(t, entity.ActivationInactive, got.ActivationStatus)

	require.NoError(t, store.ToggleStatus(context.Background(), root, "cu000001"))
	got, _ = store.FindByID("cu000001")
	assert.True(t, got.IsActive)
	assert.Equal(t, entity.ActivationActive, got.ActivationStatus)

	err := store.ToggleStatus(context.Background(), got, "admin001")
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
}

func TestUserStore_FollowIsSymmetric(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.putActor(customer("cu000001"))
	fx.putActor(franchise("fr000001", entity.Permissions{}))
	store := fx.userStore(t)
	loadUsers(t, store)
	ctx := context.Background()

	require.NoError(t, store.Follow(ctx, "cu000001", "fr000001"))

	assert.True(t, store.IsFollowing("cu000001", "fr000001"))
	target, _ := store.FindByID("fr000001")
	assert.Equal(t, []string{"cu000001"}, target.Followers)
	assert.Equal(t, 1, fx.remote.Calls(memdoc.OpBatch))

	followerDoc, _ := fx.remote.Doc(usersCollection, "fr000001")
	assert.Equal(t, []string{"cu000001"}, followerDoc.Fields["followers"])

	// Following again changes nothing and writes nothing.
	require.NoError(t, store.Follow(ctx, "cu000001", "fr000001"))
	assert.Equal(t, 1, fx.remote.Calls(memdoc.OpBatch))

	require.NoError(t, store.Unfollow(ctx, "cu000001", "fr000001"))
	assert.False(t, store.IsFollowing("cu000001", "fr000001"))
	target, _ = store.FindByID("fr000001")
	assert.Empty(t, target.Followers)
}

func TestUserStore_TeamUp(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.putActor(franchise("fr000001", entity.Permissions{}))
	fx.putActor(franchise("fr000002", entity.Permissions{}))
	store := fx.userStore(t)
	loadUsers(t, store)
	ctx := context.Background()

	require.NoError(t, store.TeamUp(ctx, "fr000001", "fr000002"))
	assert.True(t, store.IsTeammate("fr000001", "fr000002"))
	assert.True(t, store.IsTeammate("fr000002", "fr000001"))

	require.NoError(t, store.Unteam(ctx, "fr000002", "fr000001"))
	assert.False(t, store.IsTeammate("fr000001", "fr000002"))
	assert.False(t, store.IsTeammate("fr000002", "fr000001"))

	assert.ErrorIs(t, store.TeamUp(ctx, "fr000001", "fr000001"), domainerrors.ErrValidationFailed)
	assert.ErrorIs(t, store.TeamUp(ctx, "fr000001", "ghost"), domainerrors.ErrNotFound)
}

func TestUserStore_FailedRelationBatchChangesNothing(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.putActor(customer("cu000001"))
	fx.putActor(customer("cu000002"))
	store := fx.userStore(t)
	loadUsers(t, store)

	fx.remote.FailNext(memdoc.OpBatch, errors.New("aborted"))
	err := store.Follow(context.Background(), "cu000001", "cu000002")

	assert.ErrorIs(t, err, domainerrors.ErrWriteFailed)
	assert.False(t, store.IsFollowing("cu000001", "cu000002"))
	doc, _ := fx.remote.Doc(usersCollection, "cu000002")
	assert.Empty(t, doc.Fields["followers"])
}

func TestUserStore_Remove_CascadesRelations(t *testing.T) {
	fx := newStoreFixtures(t)
	root := fx.putActor(admin())
	fx.putActor(customer("cu000001"))
	fx.putActor(franchise("fr000001", entity.Permissions{}))
	store := fx.userStore(t)
	loadUsers(t, store)
	ctx := context.Background()
	require.NoError(t, store.Follow(ctx, "cu000001", "fr000001"))
	require.NoError(t, store.TeamUp(ctx, "admin001", "fr000001"))

	require.NoError(t, store.Remove(ctx, root, "fr000001"))

	_, ok := store.FindByID("fr000001")
	assert.False(t, ok)
	_, ok = fx.remote.Doc(usersCollection, "fr000001")
	assert.False(t, ok)

	follower, _ := store.FindByID("cu000001")
	assert.Empty(t, follower.Following)
	teammate, _ := store.FindByID("admin001")
	assert.Empty(t, teammate.Teammates)

	doc, _ := fx.remote.Doc(usersCollection, "cu000001")
	assert.Empty(t, doc.Fields["following"])
}

func TestUserStore_Remove_Permissions(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.putActor(admin())
	self := fx.putActor(customer("cu000001"))
	other := fx.putActor(customer("cu000002"))
	store := fx.userStore(t)
	loadUsers(t, store)

	err := store.Remove(context.Background(), other, "cu000001")
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
	assert.Zero(t, fx.remote.Calls(memdoc.OpBatch))

	require.NoError(t, store.Remove(context.Background(), self, "cu000001"))
	assert.Len(t, store.All(), 2)
}

func TestUserStore_Observe(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.putActor(customer("cu000001"))
	store := fx.userStore(t)

	var seen [][]entity.Actor
	cancel := store.Observe(func(actors []entity.Actor) { seen = append(seen, actors) })
	loadUsers(t, store)
	require.NoError(t, store.UpdateActivity(context.Background(), "cu000001", true))
	cancel()
	require.NoError(t, store.UpdateActivity(context.Background(), "cu000001", false))

	require.Len(t, seen, 2)
	assert.False(t, seen[0][0].IsOnline)
	assert.True(t, seen[1][0].IsOnline)
	assert.False(t, store.CanManageProducts("cu000001"))
}

func TestUserStore_OfflineServesSnapshot(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.putActor(customer("cu000001"))
	loadUsers(t, fx.userStore(t))

	store := fx.userStore(t)
	store.SetOffline(true)
	calls := fx.remote.Calls(memdoc.OpGet)

	require.NoError(t, store.Load(context.Background()))
	assert.Equal(t, calls, fx.remote.Calls(memdoc.OpGet))
	assert.Len(t, store.All(), 1)
	assert.True(t, store.Status().Offline)
}
