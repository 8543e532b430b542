package entity

import (
	"slices"
	"time"
)

// ProductStatus is the lifecycle state of a catalog entry.
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductDraft    ProductStatus = "draft"
	ProductArchived ProductStatus = "archived"
)

// Product is a catalog entry, optionally owned by a franchise.
// At most one product per scope carries IsFeatured.
type Product struct {
	ID          string        `firestore:"-" json:"id"`
	Name        string        `firestore:"name" json:"name"`
	Price       float64       `firestore:"price" json:"price"`
	Image       string        `firestore:"image" json:"image"`
	Category    string        `firestore:"category" json:"category"`
	Rating      float64       `firestore:"rating" json:"rating"`
	Reviews     int           `firestore:"reviews" json:"reviews"`
	Stock       int           `firestore:"stock" json:"stock"`
	Tags        []string      `firestore:"tags" json:"tags"`
	Description string        `firestore:"description" json:"description"`
	Features    []string      `firestore:"features" json:"features"`
	IsFeatured  bool          `firestore:"isFeatured" json:"isFeatured"`
	CreatedBy   string        `firestore:"createdBy" json:"createdBy"`
	FranchiseID string        `firestore:"franchiseId,omitempty" json:"franchiseId,omitempty"`
	Status      ProductStatus `firestore:"status" json:"status"`
	CreatedAt   time.Time     `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `firestore:"updatedAt" json:"updatedAt"`
}

// Key returns the document id.
func (p Product) Key() string {
	return p.ID
}

// Clone returns a deep copy of the product.
func (p Product) Clone() Product {
	p.Tags = slices.Clone(p.Tags)
	p.Features = slices.Clone(p.Features)

	return p
}

// Fields returns the document representation of the product.
func (p Product) Fields() map[string]any {
	fields := map[string]any{
		"name":        p.Name,
		"price":       p.Price,
		"image":       p.Image,
		"category":    p.Category,
		"rating":      p.Rating,
		"reviews":     p.Reviews,
		"stock":       p.Stock,
		"tags":        nonNil(p.Tags),
		"description": p.Description,
		"features":    nonNil(p.Features),
		"isFeatured":  p.IsFeatured,
		"createdBy":   p.CreatedBy,
		"status":      string(p.Status),
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
	}
	if p.FranchiseID != "" {
		fields["franchiseId"] = p.FranchiseID
	}

	return fields
}
