package usecase

import (
	"context"

	"hub/internal/domain/entity"
)

// ProductFilter scopes a product query. An empty FranchiseID means the
// whole catalog.
type ProductFilter struct {
	FranchiseID string
}

// CreateProductInput defines the data required to add a catalog entry.
type CreateProductInput struct {
	Name        string               `json:"name" validate:"required"`
	Price       float64              `json:"price" validate:"gte=0"`
	Image       string               `json:"image"`
	Category    string               `json:"category"`
	Stock       int                  `json:"stock" validate:"gte=0"`
	Tags        []string             `json:"tags"`
	Description string               `json:"description"`
	Features    []string             `json:"features"`
	Status      entity.ProductStatus `json:"status" validate:"omitempty,oneof=active draft archived"`
	FranchiseID string               `json:"franchiseId"`
}

// ProductChanges is a partial update of a product. Nil fields are untouched.
type ProductChanges struct {
	Name        *string               `json:"name" validate:"omitempty,min=1"`
	Price       *float64              `json:"price" validate:"omitempty,gte=0"`
	Image       *string               `json:"image"`
	Category    *string               `json:"category"`
	Rating      *float64              `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Reviews     *int                  `json:"reviews" validate:"omitempty,gte=0"`
	Stock       *int                  `json:"stock" validate:"omitempty,gte=0"`
	Tags        *[]string             `json:"tags"`
	Description *string               `json:"description"`
	Features    *[]string             `json:"features"`
	Status      *entity.ProductStatus `json:"status" validate:"omitempty,oneof=active draft archived"`
}

// ProductStore is the entity store of the catalog.
type ProductStore interface {
	Load(ctx context.Context, filter ProductFilter) error
	Subscribe(ctx context.Context, filter ProductFilter) (Subscription, error)
	Status() Status
	Observe(fn func([]entity.Product)) (cancel func())
	// SetOffline makes Load serve the local snapshot without network reads.
	SetOffline(offline bool)

	All() []entity.Product
	FindByID(id string) (entity.Product, bool)
	Featured() (entity.Product, bool)

	Create(ctx context.Context, by entity.Actor, input CreateProductInput) (*entity.Product, error)
	Update(ctx context.Context, by entity.Actor, id string, changes ProductChanges) error
	Remove(ctx context.Context, by entity.Actor, id string) error
	// SetFeatured flags id and clears every other product of the loaded scope
	// in one atomic batch.
	SetFeatured(ctx context.Context, by entity.Actor, id string) error

	Close()
}
