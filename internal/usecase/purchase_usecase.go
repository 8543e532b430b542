package usecase

import (
	"context"

	"hub/internal/domain/entity"
)

// PurchaseFilter scopes a purchase query to one buyer.
type PurchaseFilter struct {
	UserID string
}

// CreatePurchaseInput defines the data required to record a purchase.
type CreatePurchaseInput struct {
	ProductID string                `json:"productId" validate:"required"`
	Quantity  int                   `json:"quantity" validate:"required,gt=0"`
	Status    entity.PurchaseStatus `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
}

// PurchaseLine pairs a purchase with its product when the product is known.
type PurchaseLine struct {
	Purchase entity.Purchase `json:"purchase"`
	Product  entity.Product  `json:"product"`
}

// PurchaseStore is the append-only entity store of purchases.
type PurchaseStore interface {
	Load(ctx context.Context, filter PurchaseFilter) error
	Status() Status
	Observe(fn func([]entity.Purchase)) (cancel func())
	SetOffline(offline bool)

	All() []entity.Purchase
	// Lines joins purchases with the catalog, skipping purchases whose
	// product is unknown.
	Lines() []PurchaseLine

	Create(ctx context.Context, by entity.Actor, input CreatePurchaseInput) (*entity.Purchase, error)

	Close()
}
