// Package snapshot persists entity store collections in a local BadgerDB so a
// restart can render stale data before the first remote read completes.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"hub/config"
	"hub/internal/domain/repository"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Compile-time contract assertion.
var _ repository.SnapshotStore = (*Store)(nil)

const keyPrefix = "snapshot/"

// Store is a repository.SnapshotStore backed by BadgerDB. Values are JSON.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Params defines the parameters required for the snapshot store
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New opens the snapshot database described by config.snapshot.
func New(params Params) (*Store, error) {
	cfg := params.Config.Snapshot
	if cfg == nil {
		cfg = &config.SnapshotConfig{InMemory: true}
	}

	return Open(cfg.Path, cfg.InMemory, params.Logger)
}

// NewInMemory opens a snapshot store that never touches disk.
func NewInMemory(logger *slog.Logger) (*Store, error) {
	return Open("", true, logger)
}

// Open opens a BadgerDB at path, or in memory.
func Open(path string, inMemory bool, logger *slog.Logger) (*Store, error) {
	if !inMemory && path == "" {
		return nil, errors.New("snapshot path is required for persistent storage")
	}

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, errors.Wrapf(err, "create snapshot directory %s", path)
		}
		opts = badger.DefaultOptions(path).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1)

	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger.With(slog.String("component", "snapshot"))})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger database")
	}

	return &Store{db: db, logger: logger}, nil
}

// Save replaces the value stored under key.
func (s *Store) Save(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode snapshot %s", key)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), data)
	})

	return errors.Wrapf(err, "save snapshot %s", key)
}

// Load decodes the value stored under key into dst.
func (s *Store) Load(_ context.Context, key string, dst any) (bool, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)

		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "load snapshot %s", key)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, errors.Wrapf(err, "decode snapshot %s", key)
	}

	return true, nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})

	return errors.Wrapf(err, "delete snapshot %s", key)
}

// Close closes the database.
func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "close badger database")
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
