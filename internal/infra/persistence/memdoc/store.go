// Package memdoc provides an in-memory implementation of the remote document
// store used for tests, offline development and ephemeral environments.
package memdoc

import (
	"context"
	"strings"
	"sync"
	"time"

	"hub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Compile-time contract assertion.
var _ repository.DocumentStore = (*Store)(nil)

var (
	// ErrNotFound is returned when updating a document that does not exist.
	ErrNotFound = repository.ErrDocumentNotFound
	// ErrAlreadyExists is returned when a batch insert reuses an existing id.
	ErrAlreadyExists = errors.New("memdoc: document already exists")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("memdoc: store closed")
)

// Op names a store operation for call counting and fault injection.
type Op string

const (
	OpGet       Op = "get"
	OpSubscribe Op = "subscribe"
	OpInsert    Op = "insert"
	OpUpdate    Op = "update"
	OpRemove    Op = "remove"
	OpBatch     Op = "batch"
)

type document struct {
	fields     map[string]any
	createTime time.Time
	updateTime time.Time
}

type subscription struct {
	query   repository.Query
	onNext  func([]repository.Document)
	onError func(error)
}

// Store keeps collections of documents in memory. Snapshot listeners are
// notified synchronously on the writing goroutine after the write is applied
// and the store lock is released.
type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]*document
	subs        map[int64]*subscription
	nextSub     int64
	faults      map[Op][]error
	calls       map[Op]int
	closed      bool

	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for server timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator sets the generator of document ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		collections: make(map[string]map[string]*document),
		subs:        make(map[int64]*subscription),
		faults:      make(map[Op][]error),
		calls:       make(map[Op]int),
		now:         time.Now,
		newID:       func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:20] },
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FailNext makes the next call of op fail with err. Calls queue up.
func (s *Store) FailNext(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.faults[op] = append(s.faults[op], err)
}

// Calls returns how many times op was invoked, including failed calls.
func (s *Store) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[op]
}

// Subscribers returns the number of live subscriptions.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.subs)
}

// EmitError reports err to every subscriber of collection and ends those
// subscriptions, as a listener does when access is revoked.
func (s *Store) EmitError(collection string, err error) {
	s.mu.Lock()
	var targets []*subscription
	for id, sub := range s.subs {
		if sub.query.Collection == collection {
			targets = append(targets, sub)
			delete(s.subs, id)
		}
	}
	s.mu.Unlock()

	for _, sub := range targets {
		sub.onError(err)
	}
}

// Put writes a document with a caller-chosen id, replacing any existing one.
func (s *Store) Put(collection, id string, fields map[string]any) {
	s.mu.Lock()
	now := s.now()
	s.putLocked(collection, id, fields, now)
	deliveries := s.pendingLocked(collection)
	s.mu.Unlock()

	deliveries.send()
}

// Doc returns a copy of a stored document.
func (s *Store) Doc(collection, id string) (repository.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return repository.Document{}, false
	}

	return toDocument(id, doc), true
}

// Get implements repository.DocumentStore.
func (s *Store) Get(_ context.Context, q repository.Query) ([]repository.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enterLocked(OpGet); err != nil {
		return nil, err
	}

	return s.queryLocked(q), nil
}

// Subscribe implements repository.DocumentStore. The first snapshot is
// delivered before Subscribe returns.
func (s *Store) Subscribe(ctx context.Context, q repository.Query, onNext func([]repository.Document), onError func(error)) (func(), error) {
	s.mu.Lock()
	if err := s.enterLocked(OpSubscribe); err != nil {
		s.mu.Unlock()

		return nil, err
	}

	s.nextSub++
	id := s.nextSub
	s.subs[id] = &subscription{query: q, onNext: onNext, onError: onError}
	initial := s.queryLocked(q)
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
	stop := context.AfterFunc(ctx, cancel)

	onNext(initial)

	return func() {
		stop()
		cancel()
	}, nil
}

// Insert implements repository.DocumentStore.
func (s *Store) Insert(_ context.Context, collection string, fields map[string]any) (*repository.WriteResult, error) {
	s.mu.Lock()
	if err := s.enterLocked(OpInsert); err != nil {
		s.mu.Unlock()

		return nil, err
	}

	id := s.newID()
	now := s.now()
	s.putLocked(collection, id, fields, now)
	deliveries := s.pendingLocked(collection)
	s.mu.Unlock()

	deliveries.send()

	return &repository.WriteResult{ID: id, UpdateTime: now}, nil
}

// UpdateFields implements repository.DocumentStore. Dotted keys address
// nested map fields.
func (s *Store) UpdateFields(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	if err := s.enterLocked(OpUpdate); err != nil {
		s.mu.Unlock()

		return err
	}

	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()

		return errors.Wrapf(ErrNotFound, "%s/%s", collection, id)
	}

	now := s.now()
	s.mergeLocked(doc, fields, now)
	deliveries := s.pendingLocked(collection)
	s.mu.Unlock()

	deliveries.send()

	return nil
}

// Remove implements repository.DocumentStore. Removing a missing document
// succeeds.
func (s *Store) Remove(_ context.Context, collection, id string) error {
	s.mu.Lock()
	if err := s.enterLocked(OpRemove); err != nil {
		s.mu.Unlock()

		return err
	}

	delete(s.collections[collection], id)
	deliveries := s.pendingLocked(collection)
	s.mu.Unlock()

	deliveries.send()

	return nil
}

// AtomicBatch implements repository.DocumentStore. The batch is validated
// before any operation is applied.
func (s *Store) AtomicBatch(_ context.Context, ops []repository.BatchOp) error {
	s.mu.Lock()
	if err := s.enterLocked(OpBatch); err != nil {
		s.mu.Unlock()

		return err
	}

	for _, op := range ops {
		_, exists := s.collections[op.Collection][op.ID]
		switch {
		case op.Kind == repository.BatchUpdate && !exists:
			s.mu.Unlock()

			return errors.Wrapf(ErrNotFound, "%s/%s", op.Collection, op.ID)
		case op.Kind == repository.BatchInsert && op.ID != "" && exists:
			s.mu.Unlock()

			return errors.Wrapf(ErrAlreadyExists, "%s/%s", op.Collection, op.ID)
		}
	}

	now := s.now()
	touched := make(map[string]struct{})
	for _, op := range ops {
		touched[op.Collection] = struct{}{}
		switch op.Kind {
		case repository.BatchInsert:
			id := op.ID
			if id == "" {
				id = s.newID()
			}
			s.putLocked(op.Collection, id, op.Fields, now)
		case repository.BatchUpdate:
			s.mergeLocked(s.collections[op.Collection][op.ID], op.Fields, now)
		case repository.BatchDelete:
			delete(s.collections[op.Collection], op.ID)
		}
	}

	var deliveries pending
	for collection := range touched {
		deliveries = append(deliveries, s.pendingLocked(collection)...)
	}
	s.mu.Unlock()

	deliveries.send()

	return nil
}

// Close ends every subscription. Later calls fail with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	clear(s.subs)

	return nil
}

func (s *Store) enterLocked(op Op) error {
	s.calls[op]++
	if s.closed {
		return ErrClosed
	}
	if queued := s.faults[op]; len(queued) > 0 {
		s.faults[op] = queued[1:]

		return queued[0]
	}

	return nil
}

func (s *Store) putLocked(collection, id string, fields map[string]any, now time.Time) {
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]*document)
		s.collections[collection] = docs
	}

	createTime := now
	if prev, ok := docs[id]; ok {
		createTime = prev.createTime
	}
	docs[id] = &document{
		fields:     resolveMap(fields, now),
		createTime: createTime,
		updateTime: now,
	}
}

func (s *Store) mergeLocked(doc *document, fields map[string]any, now time.Time) {
	for path, value := range fields {
		setPath(doc.fields, strings.Split(path, "."), resolve(value, now))
	}
	doc.updateTime = now
}

type delivery struct {
	fn   func([]repository.Document)
	docs []repository.Document
}

type pending []delivery

func (p pending) send() {
	for _, d := range p {
		d.fn(d.docs)
	}
}

func (s *Store) pendingLocked(collection string) pending {
	var out pending
	for _, sub := range s.subs {
		if sub.query.Collection != collection {
			continue
		}
		out = append(out, delivery{fn: sub.onNext, docs: s.queryLocked(sub.query)})
	}

	return out
}

func toDocument(id string, doc *document) repository.Document {
	return repository.Document{
		ID:         id,
		Fields:     cloneMap(doc.fields),
		CreateTime: doc.createTime,
		UpdateTime: doc.updateTime,
	}
}

func setPath(fields map[string]any, path []string, value any) {
	if len(path) == 1 {
		fields[path[0]] = value

		return
	}

	child, ok := fields[path[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		fields[path[0]] = child
	}
	setPath(child, path[1:], value)
}
