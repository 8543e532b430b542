package memdoc

import (
	"context"
	"testing"
	"time"

	"hub/internal/domain/repository"
	"hub/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t0 time.Time) func() time.Time {
	now := t0

	return func() time.Time {
		now = now.Add(time.Second)

		return now
	}
}

func ids(docs []repository.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}

	return out
}

func TestStore_GetFiltersOrdersAndLimits(t *testing.T) {
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Put("products", "a", map[string]any{"franchiseId": "f1", "createdAt": base})
	s.Put("products", "b", map[string]any{"franchiseId": "f1", "createdAt": base.Add(time.Hour)})
	s.Put("products", "c", map[string]any{"franchiseId": "f2", "createdAt": base.Add(2 * time.Hour)})
	s.Put("products", "d", map[string]any{"franchiseId": "f1"})

	docs, err := s.Get(context.Background(), repository.Query{
		Collection: "products",
		OrderBy:    "createdAt",
		Direction:  repository.Desc,
	}.Where("franchiseId", "f1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(docs))

	docs, err = s.Get(context.Background(), repository.Query{
		Collection: "products",
		OrderBy:    "createdAt",
		Direction:  repository.Desc,
		Limit:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(docs))
}

func TestStore_InsertResolvesServerTimestamp(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithClock(fixedClock(t0)), WithIDGenerator(func() string { return "p1" }))

	res, err := s.Insert(context.Background(), "purchases", map[string]any{
		"quantity":     2,
		"purchaseDate": repository.ServerTimestamp,
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", res.ID)

	doc, ok := s.Doc("purchases", "p1")
	require.True(t, ok)
	assert.Equal(t, res.UpdateTime, doc.Fields["purchaseDate"])
	assert.Equal(t, 2, doc.Fields["quantity"])
}

func TestStore_UpdateFields(t *testing.T) {
	s := New()
	s.Put("users", "u1", map[string]any{"isOnline": false, "permissions": map[string]any{"canAddProducts": false}})

	err := s.UpdateFields(context.Background(), "users", "u1", map[string]any{
		"isOnline":                   true,
		"permissions.canAddProducts": true,
	})
	require.NoError(t, err)

	doc, _ := s.Doc("users", "u1")
	assert.Equal(t, true, doc.Fields["isOnline"])
	assert.Equal(t, map[string]any{"canAddProducts": true}, doc.Fields["permissions"])

	err = s.UpdateFields(context.Background(), "users", "missing", map[string]any{"isOnline": true})
	assert.True(t, errors.Is(err, repository.ErrDocumentNotFound))
}

func TestStore_AtomicBatchAllOrNothing(t *testing.T) {
	s := New()
	s.Put("products", "a", map[string]any{"isFeatured": true})
	s.Put("products", "b", map[string]any{"isFeatured": false})

	err := s.AtomicBatch(context.Background(), []repository.BatchOp{
		{Kind: repository.BatchUpdate, Collection: "products", ID: "a", Fields: map[string]any{"isFeatured": false}},
		{Kind: repository.BatchUpdate, Collection: "products", ID: "ghost", Fields: map[string]any{"isFeatured": true}},
	})
	require.Error(t, err)

	doc, _ := s.Doc("products", "a")
	assert.Equal(t, true, doc.Fields["isFeatured"], "no operation may be applied when the batch fails")

	err = s.AtomicBatch(context.Background(), []repository.BatchOp{
		{Kind: repository.BatchUpdate, Collection: "products", ID: "a", Fields: map[string]any{"isFeatured": false}},
		{Kind: repository.BatchUpdate, Collection: "products", ID: "b", Fields: map[string]any{"isFeatured": true}},
		{Kind: repository.BatchInsert, Collection: "audit", ID: "x1", Fields: map[string]any{"op": "feature"}},
	})
	require.NoError(t, err)

	a, _ := s.Doc("products", "a")
	b, _ := s.Doc("products", "b")
	assert.Equal(t, false, a.Fields["isFeatured"])
	assert.Equal(t, true, b.Fields["isFeatured"])
	_, ok := s.Doc("audit", "x1")
	assert.True(t, ok)
}

func TestStore_SubscribeDeliversSnapshots(t *testing.T) {
	s := New()
	s.Put("posts", "p1", map[string]any{"createdAt": time.Now()})

	var snapshots [][]string
	cancel, err := s.Subscribe(context.Background(), repository.Query{Collection: "posts", OrderBy: "createdAt"},
		func(docs []repository.Document) { snapshots = append(snapshots, ids(docs)) },
		func(error) { t.Fatal("unexpected error") },
	)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, []string{"p1"}, snapshots[0])

	s.Put("posts", "p2", map[string]any{"createdAt": time.Now().Add(time.Minute)})
	require.Len(t, snapshots, 2)
	assert.Equal(t, []string{"p1", "p2"}, snapshots[1])

	s.Put("users", "u1", map[string]any{})
	assert.Len(t, snapshots, 2, "other collections do not notify")

	cancel()
	cancel()
	assert.Equal(t, 0, s.Subscribers())

	s.Put("posts", "p3", map[string]any{"createdAt": time.Now()})
	assert.Len(t, snapshots, 2)
}

func TestStore_SubscribeEndsWithContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())

	_, err := s.Subscribe(ctx, repository.Query{Collection: "posts"}, func([]repository.Document) {}, func(error) {})
	require.NoError(t, err)
	require.Equal(t, 1, s.Subscribers())

	cancel()
	assert.Eventually(t, func() bool { return s.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}

func TestStore_EmitErrorEndsSubscription(t *testing.T) {
	s := New()
	boom := errors.New("permission revoked")

	var got error
	_, err := s.Subscribe(context.Background(), repository.Query{Collection: "posts"},
		func([]repository.Document) {},
		func(err error) { got = err },
	)
	require.NoError(t, err)

	s.EmitError("posts", boom)
	assert.Equal(t, boom, got)
	assert.Equal(t, 0, s.Subscribers())
}

func TestStore_FailNextAndCalls(t *testing.T) {
	s := New()
	boom := errors.New("network down")
	s.FailNext(OpInsert, boom)

	_, err := s.Insert(context.Background(), "products", map[string]any{})
	assert.Equal(t, boom, err)

	_, err = s.Insert(context.Background(), "products", map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, 2, s.Calls(OpInsert))
	assert.Equal(t, 0, s.Calls(OpUpdate))
}

func TestStore_Close(t *testing.T) {
	s := New()
	require.NoError(t, s.Close())

	_, err := s.Get(context.Background(), repository.Query{Collection: "users"})
	assert.ErrorIs(t, err, ErrClosed)
}
