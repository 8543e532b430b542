package repository

import "context"

// SnapshotStore is the local key-value slot the entity stores persist their
// collections to, so a restart can render stale data before the first read.
// It is a cache, never the source of truth.
type SnapshotStore interface {
	// Save replaces the value stored under key.
	Save(ctx context.Context, key string, value any) error

	// Load decodes the value stored under key into dst. It reports false
	// when nothing is stored.
	Load(ctx context.Context, key string, dst any) (bool, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
