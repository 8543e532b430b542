package repository

import "errors"

// Classified causes returned (wrapped) by DocumentStore implementations.
var (
	// ErrDocumentNotFound reports a write to a missing document.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrPreconditionFailed reports that the offline cache could not be used,
	// for instance because another session holds it.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrPermissionDenied reports that the store rejected the caller.
	ErrPermissionDenied = errors.New("permission denied by document store")

	// ErrUnavailable reports a transport failure.
	ErrUnavailable = errors.New("document store unavailable")
)
