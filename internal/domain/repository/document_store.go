// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"time"
)

// Direction is the sort direction of a query.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Filter is an equality constraint on one document field.
type Filter struct {
	Field string
	Value any
}

// Query selects an ordered, bounded slice of one collection.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Direction  Direction
	Limit      int
}

// Where returns a copy of the query with an added equality filter.
func (q Query) Where(field string, value any) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: field, Value: value})

	return q
}

// WriteResult is what the store assigned to a newly inserted document.
type WriteResult struct {
	ID         string
	UpdateTime time.Time
}

// BatchKind is the kind of one operation of an atomic batch.
type BatchKind int

const (
	BatchInsert BatchKind = iota
	BatchUpdate
	BatchDelete
)

// BatchOp is one write of an atomic batch. ID may be empty for inserts.
type BatchOp struct {
	Kind       BatchKind
	Collection string
	ID         string
	Fields     map[string]any
}

// serverTimestamp is the type of ServerTimestamp.
type serverTimestamp struct{}

// ServerTimestamp is a field value replaced by the store's write time.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)

	return ok
}

// DocumentStore is the remote document database the entity stores mirror.
// Implementations must be safe for concurrent use.
type DocumentStore interface {
	// Get performs a point-in-time read.
	Get(ctx context.Context, q Query) ([]Document, error)

	// Subscribe delivers a full snapshot of q on every change until cancel is
	// called or ctx is done. Delivery failures go to onError; the
	// subscription may stop after reporting one.
	Subscribe(ctx context.Context, q Query, onNext func([]Document), onError func(error)) (cancel func(), err error)

	// Insert creates a document with a store-assigned id.
	Insert(ctx context.Context, collection string, fields map[string]any) (*WriteResult, error)

	// UpdateFields merges fields into an existing document.
	UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error

	// Remove deletes a document.
	Remove(ctx context.Context, collection, id string) error

	// AtomicBatch applies all operations or none of them.
	AtomicBatch(ctx context.Context, ops []BatchOp) error

	// Close releases the underlying client.
	Close() error
}
