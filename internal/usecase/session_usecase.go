package usecase

import (
	"context"

	"hub/internal/domain/entity"
)

// SessionGate is the single source of truth for the acting account.
// At most one session exists per runtime.
type SessionGate interface {
	// Authenticate matches identifier against username or email.
	Authenticate(ctx context.Context, identifier, secret string) (*entity.Actor, error)
	// EndSession marks the current actor offline. Without a session it does nothing.
	EndSession(ctx context.Context) error
	// Current returns the acting account as currently known by the users store.
	Current() (entity.Actor, bool)
	// Restore resumes the session persisted by a previous run.
	Restore(ctx context.Context) error
}
