// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"slices"
	"time"
)

// Actor is any account of the hub: an administrator, a franchise operator
// or a customer. It is stored as one document of the users collection.
type Actor struct {
	ID               string           `firestore:"-" json:"id"`
	Username         string           `firestore:"username" json:"username" validate:"required"`
	Email            string           `firestore:"email" json:"email" validate:"required,email"`
	Password         string           `firestore:"password" json:"-" validate:"required"` // Stored as written, see DESIGN.md.
	Role             Role             `firestore:"role" json:"role" validate:"required"`
	IsActive         bool             `firestore:"isActive" json:"isActive"`
	ActivationStatus ActivationStatus `firestore:"activationStatus" json:"activationStatus"`
	LastActive       time.Time        `firestore:"lastActive" json:"lastActive"`
	IsOnline         bool             `firestore:"isOnline" json:"isOnline"`
	FranchiseName    string           `firestore:"franchiseName,omitempty" json:"franchiseName,omitempty"`
	Avatar           string           `firestore:"avatar,omitempty" json:"avatar,omitempty"`
	Teammates        []string         `firestore:"teammates" json:"teammates"`
	Followers        []string         `firestore:"followers" json:"followers"`
	Following        []string         `firestore:"following" json:"following"`
	Permissions      Permissions      `firestore:"permissions" json:"permissions"`
	CreatedAt        time.Time        `firestore:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time        `firestore:"updatedAt" json:"updatedAt"`
}

// Permissions holds the product permissions granted to a franchise operator.
type Permissions struct {
	CanEditProducts   bool `firestore:"canEditProducts" json:"canEditProducts"`
	CanAddProducts    bool `firestore:"canAddProducts" json:"canAddProducts"`
	CanDeleteProducts bool `firestore:"canDeleteProducts" json:"canDeleteProducts"`
}

// Any reports whether at least one product permission is granted.
func (p Permissions) Any() bool {
	return p.CanEditProducts || p.CanAddProducts || p.CanDeleteProducts
}

// Fields returns the document representation of the permission set.
func (p Permissions) Fields() map[string]any {
	return map[string]any{
		"canEditProducts":   p.CanEditProducts,
		"canAddProducts":    p.CanAddProducts,
		"canDeleteProducts": p.CanDeleteProducts,
	}
}

// ProductAction is an operation on the product catalog guarded by Permissions.
type ProductAction int

const (
	ProductAdd ProductAction = iota
	ProductEdit
	ProductDelete
)

// String returns the permission name guarding the action.
func (a ProductAction) String() string {
	switch a {
	case ProductAdd:
		return "canAddProducts"
	case ProductEdit:
		return "canEditProducts"
	case ProductDelete:
		return "canDeleteProducts"
	default:
		return "unknown"
	}
}

// IsAdmin reports whether the actor is the administrator.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleWebmaster
}

// Can reports whether the actor may perform the product action.
// Administrators may do everything, customers nothing.
func (a Actor) Can(action ProductAction) bool {
	switch a.Role {
	case RoleWebmaster:
		return true
	case RoleFranchise:
		switch action {
		case ProductAdd:
			return a.Permissions.CanAddProducts
		case ProductEdit:
			return a.Permissions.CanEditProducts
		case ProductDelete:
			return a.Permissions.CanDeleteProducts
		}
	}

	return false
}

// CanManageProducts reports whether the actor holds any product permission.
func (a Actor) CanManageProducts() bool {
	if a.IsAdmin() {
		return true
	}

	return a.Role == RoleFranchise && a.Permissions.Any()
}

// CanManageActor reports whether the actor may delete the target account.
func (a Actor) CanManageActor(targetID string) bool {
	return a.IsAdmin() || a.ID == targetID
}

// IsFollowing reports whether the actor follows target.
func (a Actor) IsFollowing(targetID string) bool {
	return slices.Contains(a.Following, targetID)
}

// IsTeammate reports whether target is in the actor's team.
func (a Actor) IsTeammate(targetID string) bool {
	return slices.Contains(a.Teammates, targetID)
}

// Key returns the document id.
func (a Actor) Key() string {
	return a.ID
}

// Clone returns a deep copy of the actor.
func (a Actor) Clone() Actor {
	a.Teammates = slices.Clone(a.Teammates)
	a.Followers = slices.Clone(a.Followers)
	a.Following = slices.Clone(a.Following)

	return a
}

// Fields returns the document representation of the actor.
func (a Actor) Fields() map[string]any {
	fields := map[string]any{
		"username":         a.Username,
		"email":            a.Email,
		"password":         a.Password,
		"role":             string(a.Role),
		"isActive":         a.IsActive,
		"activationStatus": string(a.ActivationStatus),
		"lastActive":       a.LastActive,
		"isOnline":         a.IsOnline,
		"teammates":        nonNil(a.Teammates),
		"followers":        nonNil(a.Followers),
		"following":        nonNil(a.Following),
		"permissions":      a.Permissions.Fields(),
		"createdAt":        a.CreatedAt,
		"updatedAt":        a.UpdatedAt,
	}
	if a.FranchiseName != "" {
		fields["franchiseName"] = a.FranchiseName
	}
	if a.Avatar != "" {
		fields["avatar"] = a.Avatar
	}

	return fields
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}

	return slices.Clone(ids)
}
