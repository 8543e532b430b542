package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID    string   `json:"id"`
	Names []string `json:"names"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStore_SaveLoadDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var got []sample
	found, err := store.Load(ctx, "products", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := []sample{{ID: "p1", Names: []string{"a"}}, {ID: "p2"}}
	require.NoError(t, store.Save(ctx, "products", want))

	found, err = store.Load(ctx, "products", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, store.Delete(ctx, "products"))
	found, err = store.Load(ctx, "products", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_SaveReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "session", "u1"))
	require.NoError(t, store.Save(ctx, "session", "u2"))

	var got string
	found, err := store.Load(ctx, "session", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "u2", got)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := Open(dir, false, nil)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "users", []sample{{ID: "u1"}}))
	require.NoError(t, first.Close())

	second, err := Open(dir, false, nil)
	require.NoError(t, err)
	defer second.Close()

	var got []sample
	found, err := second.Load(ctx, "users", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []sample{{ID: "u1"}}, got)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("", false, nil)
	assert.Error(t, err)
}
