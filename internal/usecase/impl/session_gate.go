package impl

import (
	"context"
	"log/slog"
	"sync"

	"hub/internal/domain/entity"
	domainerrors "hub/internal/domain/errors"
	"hub/internal/domain/repository"
	"hub/internal/domain/service"
	"hub/internal/errors"
	"hub/internal/usecase"

	"go.uber.org/fx"
)

// sessionKey is the snapshot slot holding the current identity.
const sessionKey = "session"

type persistedSession struct {
	ActorID string `json:"actorId"`
}

// sessionGate implements the SessionGate interface. The current identity is
// kept as an id and always resolved through the users store.
type sessionGate struct {
	users     usecase.UserStore
	verifier  service.SecretVerifier
	snapshots repository.SnapshotStore
	logger    *slog.Logger

	mu      sync.Mutex
	current string
}

// SessionGateParams holds dependencies for SessionGate, injected by Fx.
type SessionGateParams struct {
	fx.In

	Users     usecase.UserStore
	Verifier  service.SecretVerifier
	Snapshots repository.SnapshotStore
	Logger    *slog.Logger
}

// NewSessionGate is the constructor for sessionGate.
func NewSessionGate(params SessionGateParams) usecase.SessionGate {
	return &sessionGate{
		users:     params.Users,
		verifier:  params.Verifier,
		snapshots: params.Snapshots,
		logger:    params.Logger.With(slog.String("component", "session")),
	}
}

// Authenticate checks the credentials and makes the account the current
// identity, ending the session of any other account first.
func (g *sessionGate) Authenticate(ctx context.Context, identifier, secret string) (*entity.Actor, error) {
	actor, ok := g.users.FindByIdentifier(identifier)
	if !ok || !g.verifier.Check(secret, actor.Password) {
		g.logger.Warn("Authentication failed", slog.String("identifier", identifier))

		return nil, domainerrors.ErrInvalidCredentials
	}
	if !actor.IsActive {
		g.logger.Warn("Authentication of deactivated account", slog.String("id", actor.ID))

		return nil, domainerrors.ErrAccountDeactivated
	}

	if prev, ok := g.currentID(); ok && prev != actor.ID {
		if err := g.EndSession(ctx); err != nil {
			g.logger.Warn("Failed to end previous session", slog.String("id", prev), slog.Any("error", err))
		}
	}

	if actor.ActivationStatus == entity.ActivationPending {
		if err := g.users.Activate(ctx, actor.ID); err != nil {
			return nil, errors.Wrap(err, "activate account")
		}
	}
	if err := g.users.UpdateActivity(ctx, actor.ID, true); err != nil {
		return nil, errors.Wrap(err, "mark account online")
	}

	g.setCurrent(ctx, actor.ID)
	g.logger.Info("Session started", slog.String("id", actor.ID), slog.String("role", actor.Role.String()))

	current, ok := g.users.FindByID(actor.ID)
	if !ok {
		current = actor
	}

	return &current, nil
}

// EndSession marks the current account offline and clears the identity.
func (g *sessionGate) EndSession(ctx context.Context) error {
	id, ok := g.currentID()
	if !ok {
		return nil
	}

	g.setCurrent(ctx, "")
	if err := g.users.UpdateActivity(ctx, id, false); err != nil {
		return errors.Wrap(err, "mark account offline")
	}
	g.logger.Info("Session ended", slog.String("id", id))

	return nil
}

// Current resolves the acting account against the users store.
func (g *sessionGate) Current() (entity.Actor, bool) {
	id, ok := g.currentID()
	if !ok {
		return entity.Actor{}, false
	}

	return g.users.FindByID(id)
}

// Restore resumes the persisted session when its account is still present
// and active. A stale session is discarded.
func (g *sessionGate) Restore(ctx context.Context) error {
	if g.snapshots == nil {
		return nil
	}

	var saved persistedSession
	found, err := g.snapshots.Load(ctx, sessionKey, &saved)
	if err != nil {
		return errors.Wrap(err, "load session")
	}
	if !found || saved.ActorID == "" {
		return nil
	}

	actor, ok := g.users.FindByID(saved.ActorID)
	if !ok || !actor.IsActive {
		g.logger.Info("Discarding stale session", slog.String("id", saved.ActorID))

		return errors.Wrap(g.snapshots.Delete(ctx, sessionKey), "delete session")
	}

	g.mu.Lock()
	g.current = actor.ID
	g.mu.Unlock()
	g.logger.Info("Session restored", slog.String("id", actor.ID))

	return nil
}

func (g *sessionGate) currentID() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.current, g.current != ""
}

func (g *sessionGate) setCurrent(ctx context.Context, id string) {
	g.mu.Lock()
	g.current = id
	g.mu.Unlock()

	if g.snapshots == nil {
		return
	}

	var err error
	if id == "" {
		err = g.snapshots.Delete(ctx, sessionKey)
	} else {
		err = g.snapshots.Save(ctx, sessionKey, persistedSession{ActorID: id})
	}
	if err != nil {
		g.logger.Warn("Failed to persist session", slog.Any("error", err))
	}
}
