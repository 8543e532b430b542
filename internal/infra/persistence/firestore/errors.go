package firestore

import (
	"context"
	"fmt"

	"hub/internal/domain/repository"
	"hub/internal/errors"

	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// classify maps a Firestore failure onto the repository causes while
// keeping the original error in the chain.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var kind error
	switch status.Code(err) {
	case codes.NotFound:
		kind = repository.ErrDocumentNotFound
	case codes.FailedPrecondition:
		kind = repository.ErrPreconditionFailed
	case codes.PermissionDenied, codes.Unauthenticated:
		kind = repository.ErrPermissionDenied
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		kind = repository.ErrUnavailable
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			kind = repository.ErrUnavailable
		}
	}

	if kind == nil {
		return errors.Wrapf(err, "firestore %s", op)
	}

	return fmt.Errorf("firestore %s: %w: %w", op, kind, err)
}

// isCanceled reports whether err only reflects the listener being stopped.
func isCanceled(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, iterator.Done) {
		return true
	}

	return status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled)
}
