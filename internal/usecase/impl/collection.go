// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	deliverycontext "hub/internal/delivery/context"
	domainerrors "hub/internal/domain/errors"
	"hub/internal/domain/repository"
	"hub/internal/domain/service"
	"hub/internal/errors"
	"hub/internal/usecase"
)

// record is the constraint shared by every entity held in a collection.
type record[T any] interface {
	Key() string
	Clone() T
	Fields() map[string]any
}

// snapshotRecord is the persisted form of one entity.
type snapshotRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// collectionDeps are the collaborators shared by every entity store.
type collectionDeps struct {
	Remote    repository.DocumentStore
	Snapshots repository.SnapshotStore
	Recorder  service.OperationRecorder
	Logger    *slog.Logger
	Now       func() time.Time
}

// collection is the generic core of an entity store: an ordered, id-unique
// list mirrored from one remote collection, its status, its observers, its
// persisted snapshot and its single subscription slot.
//
// Local state only changes under mu; remote calls happen outside it.
type collection[T record[T]] struct {
	name   string
	decode func(repository.Document) (T, error)
	deps   collectionDeps

	mu        sync.Mutex
	items     []T
	status    usecase.Status
	observers map[int]func([]T)
	nextObs   int
	sub       *subscription
	subGen    uint64

	// persistMu orders snapshot writes so the last write reflects the
	// latest state.
	persistMu sync.Mutex
}

func newCollection[T record[T]](name string, decode func(repository.Document) (T, error), deps collectionDeps) *collection[T] {
	if deps.Recorder == nil {
		deps.Recorder = service.NopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &collection[T]{
		name:      name,
		decode:    decode,
		deps:      deps,
		observers: make(map[int]func([]T)),
	}
}

func (c *collection[T]) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, c.deps.Logger).With(slog.String("store", c.name))
}

// --- Reads ---

func (c *collection[T]) all() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	return cloneAll(c.items)
}

func (c *collection[T]) find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items {
		if item.Key() == id {
			return item.Clone(), true
		}
	}

	var zero T

	return zero, false
}

func (c *collection[T]) findFunc(match func(T) bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items {
		if match(item) {
			return item.Clone(), true
		}
	}

	var zero T

	return zero, false
}

func (c *collection[T]) currentStatus() usecase.Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.status
	st.Size = len(c.items)

	return st
}

func (c *collection[T]) setOffline(offline bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status.Offline = offline
}

func (c *collection[T]) isOffline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status.Offline
}

// observe registers fn to receive a copy of the collection after each change.
func (c *collection[T]) observe(fn func([]T)) func() {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// --- Local mutations ---

// change applies fn to the items under the lock. When fn reports a change,
// observers are notified and the snapshot is persisted.
func (c *collection[T]) change(ctx context.Context, fn func(items []T) ([]T, bool)) {
	c.mu.Lock()
	next, changed := fn(c.items)
	if !changed {
		c.mu.Unlock()

		return
	}
	c.items = next
	size := len(next)
	observers := c.observerListLocked()
	view := cloneAll(next)
	c.mu.Unlock()

	c.deps.Recorder.SetSize(c.name, size)
	for _, fn := range observers {
		fn(cloneAll(view))
	}
	c.persist(ctx)
}

func (c *collection[T]) observerListLocked() []func([]T) {
	out := make([]func([]T), 0, len(c.observers))
	for _, fn := range c.observers {
		out = append(out, fn)
	}

	return out
}

// replace swaps the whole collection, dropping duplicate ids.
func (c *collection[T]) replace(ctx context.Context, items []T) {
	items = dedupe(items)
	c.change(ctx, func([]T) ([]T, bool) { return items, true })
}

// upsertFront puts item first, removing any other entry with its id.
func (c *collection[T]) upsertFront(ctx context.Context, item T) {
	c.change(ctx, func(items []T) ([]T, bool) {
		next := make([]T, 0, len(items)+1)
		next = append(next, item)
		for _, existing := range items {
			if existing.Key() != item.Key() {
				next = append(next, existing)
			}
		}

		return next, true
	})
}

// mutate applies fn to the entity with id. A missing id is a no-op.
func (c *collection[T]) mutate(ctx context.Context, id string, fn func(*T)) bool {
	found := false
	c.change(ctx, func(items []T) ([]T, bool) {
		for i := range items {
			if items[i].Key() != id {
				continue
			}
			next := cloneAll(items)
			fn(&next[i])
			found = true

			return next, true
		}

		return items, false
	})

	return found
}

// mutateAll applies fn to every entity.
func (c *collection[T]) mutateAll(ctx context.Context, fn func(*T)) {
	c.change(ctx, func(items []T) ([]T, bool) {
		next := cloneAll(items)
		for i := range next {
			fn(&next[i])
		}

		return next, true
	})
}

func (c *collection[T]) removeLocal(ctx context.Context, id string) {
	c.change(ctx, func(items []T) ([]T, bool) {
		next := make([]T, 0, len(items))
		for _, item := range items {
			if item.Key() != id {
				next = append(next, item)
			}
		}

		return next, len(next) != len(items)
	})
}

// --- Status ---

func (c *collection[T]) beginLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status.Loading = true
}

func (c *collection[T]) loaded() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status.Loading = false
	c.status.LastError = nil
	c.status.LastErrorAt = time.Time{}
	c.status.LoadedAt = c.deps.Now()
}

func (c *collection[T]) recordError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status.Loading = false
	c.status.LastError = err
	c.status.LastErrorAt = c.deps.Now()
}

func (c *collection[T]) clearError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status.LastError = nil
	c.status.LastErrorAt = time.Time{}
}

// --- Remote operations ---

// timed runs one remote call and records its outcome.
func (c *collection[T]) timed(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.deps.Recorder.ObserveRemote(c.name, op, time.Since(start), err)

	return err
}

// remoteFailure translates a remote error, records it and logs it.
func (c *collection[T]) remoteFailure(ctx context.Context, kind *domainerrors.BaseError, op string, cause error) error {
	if errors.Is(cause, repository.ErrPreconditionFailed) {
		kind = domainerrors.ErrOfflineCacheUnavailable
	}
	err := domainerrors.NewRemoteError(kind, c.name+"."+op, cause)
	c.recordError(err)

	if kind == domainerrors.ErrOfflineCacheUnavailable {
		c.log(ctx).Warn("Remote store precondition failed", slog.String("op", op), slog.Any("error", cause))
	} else {
		c.log(ctx).Error("Remote store call failed", slog.String("op", op), slog.Any("error", cause))
	}

	return err
}

// load replaces the collection with the result of q. On failure the
// collection is kept; a precondition failure on an empty collection falls
// back to the persisted snapshot.
func (c *collection[T]) load(ctx context.Context, q repository.Query) error {
	if c.isOffline() {
		c.log(ctx).Debug("Offline, serving local snapshot")

		return c.warm(ctx)
	}

	c.beginLoad()

	var docs []repository.Document
	err := c.timed("get", func() error {
		var getErr error
		docs, getErr = c.deps.Remote.Get(ctx, q)

		return getErr
	})
	if err != nil {
		loadErr := c.remoteFailure(ctx, domainerrors.ErrLoadFailed, "load", err)
		if errors.Is(loadErr, domainerrors.ErrOfflineCacheUnavailable) && c.currentStatus().Size == 0 {
			if warmErr := c.warm(ctx); warmErr != nil {
				c.log(ctx).Warn("Snapshot fallback failed", slog.Any("error", warmErr))
			}
		}

		return loadErr
	}

	items, err := c.decodeAll(docs)
	if err != nil {
		return c.remoteFailure(ctx, domainerrors.ErrLoadFailed, "decode", err)
	}

	c.replace(ctx, items)
	c.loaded()
	c.log(ctx).Debug("Loaded collection", slog.Int("count", len(items)))

	return nil
}

// insert creates a document and puts the realized entity first.
func (c *collection[T]) insert(ctx context.Context, fields map[string]any, realize func(*repository.WriteResult) T) (T, error) {
	var res *repository.WriteResult
	err := c.timed("insert", func() error {
		var insertErr error
		res, insertErr = c.deps.Remote.Insert(ctx, c.name, fields)

		return insertErr
	})
	if err != nil {
		var zero T

		return zero, c.remoteFailure(ctx, domainerrors.ErrWriteFailed, "create", err)
	}

	item := realize(res)
	c.upsertFront(ctx, item)
	c.clearError()
	c.log(ctx).Debug("Created entity", slog.String("id", item.Key()))

	return item.Clone(), nil
}

// update writes fields remotely, then applies the same change locally.
func (c *collection[T]) update(ctx context.Context, id string, fields map[string]any, apply func(*T)) error {
	err := c.timed("update", func() error {
		return c.deps.Remote.UpdateFields(ctx, c.name, id, fields)
	})
	if err != nil {
		return c.remoteFailure(ctx, domainerrors.ErrWriteFailed, "update", err)
	}

	if !c.mutate(ctx, id, apply) {
		c.log(ctx).Debug("Updated entity not held locally", slog.String("id", id))
	}
	c.clearError()

	return nil
}

// remove deletes the document remotely, then locally.
func (c *collection[T]) remove(ctx context.Context, id string) error {
	err := c.timed("remove", func() error {
		return c.deps.Remote.Remove(ctx, c.name, id)
	})
	if err != nil {
		return c.remoteFailure(ctx, domainerrors.ErrWriteFailed, "remove", err)
	}

	c.removeLocal(ctx, id)
	c.clearError()

	return nil
}

// batch applies ops atomically, then runs apply on the local state.
func (c *collection[T]) batch(ctx context.Context, op string, ops []repository.BatchOp, apply func(*T)) error {
	err := c.timed("batch", func() error {
		return c.deps.Remote.AtomicBatch(ctx, ops)
	})
	if err != nil {
		return c.remoteFailure(ctx, domainerrors.ErrWriteFailed, op, err)
	}

	c.mutateAll(ctx, apply)
	c.clearError()

	return nil
}

func (c *collection[T]) decodeAll(docs []repository.Document) ([]T, error) {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := c.decode(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// --- Snapshot ---

func (c *collection[T]) persist(ctx context.Context) {
	if c.deps.Snapshots == nil {
		return
	}

	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	records := make([]snapshotRecord, 0, len(c.items))
	for _, item := range c.items {
		records = append(records, snapshotRecord{ID: item.Key(), Fields: item.Fields()})
	}
	c.mu.Unlock()

	if err := c.deps.Snapshots.Save(ctx, c.name, records); err != nil {
		c.log(ctx).Warn("Failed to persist snapshot", slog.Any("error", err))
	}
}

// warm fills the collection from the persisted snapshot.
func (c *collection[T]) warm(ctx context.Context) error {
	if c.deps.Snapshots == nil {
		return nil
	}

	var records []snapshotRecord
	found, err := c.deps.Snapshots.Load(ctx, c.name, &records)
	if err != nil {
		return errors.Wrap(err, "load snapshot")
	}
	if !found {
		return nil
	}

	items := make([]T, 0, len(records))
	for _, rec := range records {
		item, err := c.decode(repository.Document{ID: rec.ID, Fields: rec.Fields})
		if err != nil {
			return errors.Wrapf(err, "decode snapshot record %s", rec.ID)
		}
		items = append(items, item)
	}

	items = dedupe(items)
	c.mu.Lock()
	c.items = items
	observers := c.observerListLocked()
	c.mu.Unlock()

	c.deps.Recorder.SetSize(c.name, len(items))
	for _, fn := range observers {
		fn(cloneAll(items))
	}
	c.log(ctx).Debug("Warmed from snapshot", slog.Int("count", len(items)))

	return nil
}

// --- Subscription slot ---

// subscribe replaces the live subscription of the collection with one on q.
func (c *collection[T]) subscribe(ctx context.Context, q repository.Query) (usecase.Subscription, error) {
	c.mu.Lock()
	prev := c.sub
	c.sub = nil
	c.subGen++
	gen := c.subGen
	c.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	sub := newSubscription()
	onNext := func(docs []repository.Document) {
		if sub.ended() || !c.isGeneration(gen) {
			return
		}
		items, err := c.decodeAll(docs)
		if err != nil {
			_ = c.remoteFailure(ctx, domainerrors.ErrLoadFailed, "decode", err)

			return
		}
		c.replace(ctx, items)
		c.loaded()
	}
	onError := func(err error) {
		if sub.ended() || !c.isGeneration(gen) {
			return
		}
		sub.finish(c.remoteFailure(ctx, domainerrors.ErrLoadFailed, "subscribe", err))
	}

	var cancel func()
	err := c.timed("subscribe", func() error {
		var subErr error
		cancel, subErr = c.deps.Remote.Subscribe(ctx, q, onNext, onError)

		return subErr
	})
	if err != nil {
		return nil, c.remoteFailure(ctx, domainerrors.ErrLoadFailed, "subscribe", err)
	}
	sub.attach(cancel)

	c.mu.Lock()
	if c.subGen != gen {
		c.mu.Unlock()
		sub.Cancel()

		return sub, nil
	}
	c.sub = sub
	c.mu.Unlock()

	c.log(ctx).Debug("Subscription started")

	return sub, nil
}

func (c *collection[T]) isGeneration(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.subGen == gen
}

// close cancels the live subscription, if any.
func (c *collection[T]) close() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.subGen++
	c.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}

func cloneAll[T record[T]](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}

	return out
}

// dedupe keeps the first occurrence of every id.
func dedupe[T record[T]](items []T) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Key()]; ok {
			continue
		}
		seen[item.Key()] = struct{}{}
		out = append(out, item)
	}

	return out
}
