package usecase

import (
	"context"

	"hub/internal/domain/entity"
)

// --- Input DTOs ---

// CreateActorInput defines the data required to create an account.
type CreateActorInput struct {
	Username      string              `json:"username" validate:"required,min=3"`
	Email         string              `json:"email" validate:"required,email"`
	Password      string              `json:"password" validate:"required,min=6"`
	Role          entity.Role         `json:"role" validate:"required,oneof=webmaster distributing_franchise customer"`
	FranchiseName string              `json:"franchiseName"`
	Avatar        string              `json:"avatar"`
	Permissions   *entity.Permissions `json:"permissions"`
	// Pending accounts are activated on first login.
	Pending bool `json:"pending"`
}

// ActorChanges is a partial update of an account. Nil fields are untouched.
// The role cannot change after creation.
type ActorChanges struct {
	Username         *string                  `json:"username" validate:"omitempty,min=3"`
	Email            *string                  `json:"email" validate:"omitempty,email"`
	Password         *string                  `json:"password" validate:"omitempty,min=6"`
	FranchiseName    *string                  `json:"franchiseName"`
	Avatar           *string                  `json:"avatar"`
	Permissions      *entity.Permissions      `json:"permissions"`
	IsActive         *bool                    `json:"isActive"`
	ActivationStatus *entity.ActivationStatus `json:"activationStatus" validate:"omitempty,oneof=pending active inactive"`
}

// UserStore is the entity store of accounts and their relationships.
type UserStore interface {
	Load(ctx context.Context) error
	Subscribe(ctx context.Context) (Subscription, error)
	Status() Status
	Observe(fn func([]entity.Actor)) (cancel func())
	SetOffline(offline bool)

	All() []entity.Actor
	FindByID(id string) (entity.Actor, bool)
	// FindByIdentifier matches username or email.
	FindByIdentifier(identifier string) (entity.Actor, bool)

	// Create is restricted to the administrator.
	Create(ctx context.Context, by entity.Actor, input CreateActorInput) (*entity.Actor, error)
	// Update is allowed to the administrator and to the account itself. Only the
	// administrator may change permissions or activation.
	Update(ctx context.Context, by entity.Actor, id string, changes ActorChanges) error
	// Remove is allowed to the administrator and to the account itself.
	Remove(ctx context.Context, by entity.Actor, id string) error

	ToggleStatus(ctx context.Context, by entity.Actor, id string) error
	Activate(ctx context.Context, id string) error
	UpdateActivity(ctx context.Context, id string, online bool) error

	CanManageProducts(id string) bool
	IsFollowing(actorID, targetID string) bool
	IsTeammate(actorID, targetID string) bool

	// Follow, Unfollow, TeamUp and Unteam update both accounts in one atomic batch.
	Follow(ctx context.Context, actorID, targetID string) error
	Unfollow(ctx context.Context, actorID, targetID string) error
	TeamUp(ctx context.Context, actorID, targetID string) error
	Unteam(ctx context.Context, actorID, targetID string) error

	Close()
}
