package firestore

import (
	"context"
	"log/slog"
	"sort"

	"hub/internal/domain/repository"

	"cloud.google.com/go/firestore"
)

// Compile-time contract assertion.
var _ repository.DocumentStore = (*Store)(nil)

// Store is a repository.DocumentStore backed by a Firestore client.
type Store struct {
	client *firestore.Client
	logger *slog.Logger
}

// NewStore wraps an initialized client.
func NewStore(client *firestore.Client, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		logger: logger.With(slog.String("component", "firestore")),
	}
}

func (s *Store) query(q repository.Query) firestore.Query {
	query := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, "==", f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Direction == repository.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	return query
}

// Get implements repository.DocumentStore.
func (s *Store) Get(ctx context.Context, q repository.Query) ([]repository.Document, error) {
	snaps, err := s.query(q).Documents(ctx).GetAll()
	if err != nil {
		return nil, classify("get "+q.Collection, err)
	}

	return toDocuments(snaps), nil
}

// Subscribe implements repository.DocumentStore. Snapshots are delivered on
// a dedicated goroutine until cancel is called, ctx is done or the listener
// fails.
func (s *Store) Subscribe(ctx context.Context, q repository.Query, onNext func([]repository.Document), onError func(error)) (func(), error) {
	listenCtx, cancel := context.WithCancel(ctx)
	it := s.query(q).Snapshots(listenCtx)

	go func() {
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if isCanceled(listenCtx, err) {
					s.logger.Debug("Listener stopped", slog.String("collection", q.Collection))

					return
				}
				onError(classify("listen "+q.Collection, err))

				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				onError(classify("listen "+q.Collection, err))

				return
			}
			onNext(toDocuments(docs))
		}
	}()

	return cancel, nil
}

// Insert implements repository.DocumentStore.
func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (*repository.WriteResult, error) {
	ref, res, err := s.client.Collection(collection).Add(ctx, toFirestoreMap(fields))
	if err != nil {
		return nil, classify("insert "+collection, err)
	}

	return &repository.WriteResult{ID: ref.ID, UpdateTime: res.UpdateTime}, nil
}

// UpdateFields implements repository.DocumentStore.
func (s *Store) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, toUpdates(fields))

	return classify("update "+collection+"/"+id, err)
}

// Remove implements repository.DocumentStore.
func (s *Store) Remove(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)

	return classify("remove "+collection+"/"+id, err)
}

// AtomicBatch implements repository.DocumentStore with a write-only
// transaction.
func (s *Store) AtomicBatch(ctx context.Context, ops []repository.BatchOp) error {
	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		for _, op := range ops {
			coll := s.client.Collection(op.Collection)
			var err error
			switch op.Kind {
			case repository.BatchInsert:
				ref := coll.NewDoc()
				if op.ID != "" {
					ref = coll.Doc(op.ID)
				}
				err = tx.Create(ref, toFirestoreMap(op.Fields))
			case repository.BatchUpdate:
				err = tx.Update(coll.Doc(op.ID), toUpdates(op.Fields))
			case repository.BatchDelete:
				err = tx.Delete(coll.Doc(op.ID))
			}
			if err != nil {
				return err
			}
		}

		return nil
	})

	return classify("batch", err)
}

// Close implements repository.DocumentStore.
func (s *Store) Close() error {
	return s.client.Close()
}

func toDocuments(snaps []*firestore.DocumentSnapshot) []repository.Document {
	docs := make([]repository.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, repository.Document{
			ID:         snap.Ref.ID,
			Fields:     snap.Data(),
			CreateTime: snap.CreateTime,
			UpdateTime: snap.UpdateTime,
		})
	}

	return docs
}

// toUpdates turns dotted keys into field path updates, in a stable order.
func toUpdates(fields map[string]any) []firestore.Update {
	paths := make([]string, 0, len(fields))
	for path := range fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	updates := make([]firestore.Update, 0, len(paths))
	for _, path := range paths {
		updates = append(updates, firestore.Update{Path: path, Value: toFirestoreValue(fields[path])})
	}

	return updates
}

func toFirestoreMap(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = toFirestoreValue(v)
	}

	return out
}

func toFirestoreValue(v any) any {
	if repository.IsServerTimestamp(v) {
		return firestore.ServerTimestamp
	}

	switch t := v.(type) {
	case map[string]any:
		return toFirestoreMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toFirestoreValue(e)
		}

		return out
	default:
		return v
	}
}
