package impl

import (
	"context"
	"testing"

	"hub/internal/domain/entity"
	domainerrors "hub/internal/domain/errors"
	"hub/internal/infra/persistence/memdoc"
	"hub/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsStore_Refresh(t *testing.T) {
	fx := newStoreFixtures(t)
	fx.putActor(admin())
	online := franchise("fr000001", entity.Permissions{})
	online.IsOnline = true
	fx.putActor(online)
	pending := franchise("fr000002", entity.Permissions{})
	pending.ActivationStatus = entity.ActivationPending
	fx.putActor(pending)

	users := fx.userStore(t)
	stats := NewStatsStore(StatsStoreParams{
		Remote: fx.remote,
		Users:  users,
		Posts:  fx.postStore(t),
		Logger: fx.logger,
	})

	_, ok := stats.Snapshot()
	assert.False(t, ok)

	got, err := stats.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 2, got.Active)
	assert.Equal(t, 1, got.Online)
	assert.Equal(t, 1, got.Pending)

	fx.remote.FailNext(memdoc.OpGet, errors.New("unavailable"))
	kept, err := stats.Refresh(context.Background())

	assert.ErrorIs(t, err, domainerrors.ErrLoadFailed)
	assert.Equal(t, got, kept)
	snap, ok := stats.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, got, snap)
	assert.Error(t, stats.Status().LastError)
}

func TestStatsStore_Engagement(t *testing.T) {
	fx := newStoreFixtures(t)
	online := customer("cu000001")
	online.IsOnline = true
	fx.putActor(online)
	users := fx.userStore(t)
	loadUsers(t, users)
	posts := fx.postStore(t)
	_, err := posts.Create(context.Background(), online, usecase.CreatePostInput{Content: "hello"})
	require.NoError(t, err)

	stats := NewStatsStore(StatsStoreParams{Remote: fx.remote, Users: users, Posts: posts, Logger: fx.logger})
	summary := stats.Engagement(testNow)

	assert.Equal(t, 1, summary.OnlineActors)
	assert.Equal(t, 1, summary.PostsToday)
	assert.Zero(t, summary.PostsYesterday)
}
