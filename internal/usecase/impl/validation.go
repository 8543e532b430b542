package impl

import (
	"github.com/go-playground/validator/v10"

	"hub/internal/domain/entity"
	domainerrors "hub/internal/domain/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks the validate tags of a store input.
func validateInput(input any) error {
	if err := validate.Struct(input); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}

// requireProduct fails closed when the actor lacks the product permission.
func requireProduct(actor entity.Actor, action entity.ProductAction) error {
	if actor.ID == "" || !actor.Can(action) {
		return domainerrors.ErrPermissionDenied.WithDetails(action.String() + " required")
	}

	return nil
}

// requireAdmin fails closed unless the actor is the administrator.
func requireAdmin(actor entity.Actor) error {
	if actor.ID == "" || !actor.IsAdmin() {
		return domainerrors.ErrPermissionDenied.WithDetails("administrator required")
	}

	return nil
}

// requireAuthorOrAdmin fails closed unless the actor wrote the item or is the administrator.
func requireAuthorOrAdmin(actor entity.Actor, authorID string) error {
	if actor.ID == "" || (actor.ID != authorID && !actor.IsAdmin()) {
		return domainerrors.ErrPermissionDenied.WithDetails("author or administrator required")
	}

	return nil
}

// requireActor fails closed for an anonymous caller.
func requireActor(actor entity.Actor) error {
	if actor.ID == "" {
		return domainerrors.ErrNoSession
	}

	return nil
}
