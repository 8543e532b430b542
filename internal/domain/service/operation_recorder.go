package service

import "time"

// OperationRecorder observes entity store activity.
type OperationRecorder interface {
	// ObserveRemote records one call to the remote document store.
	ObserveRemote(store, op string, elapsed time.Duration, err error)

	// SetSize records the size of a store's local collection.
	SetSize(store string, n int)
}

// NopRecorder discards every observation.
type NopRecorder struct{}

func (NopRecorder) ObserveRemote(string, string, time.Duration, error) {}

func (NopRecorder) SetSize(string, int) {}
