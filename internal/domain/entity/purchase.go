package entity

import "time"

// PurchaseStatus is the lifecycle state of a purchase.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// Purchase records a customer buying a product. Purchases are append only;
// PurchaseDate is assigned by the document store at write time.
type Purchase struct {
	ID           string         `firestore:"-" json:"id"`
	UserID       string         `firestore:"userId" json:"userId"`
	ProductID    string         `firestore:"productId" json:"productId"`
	Quantity     int            `firestore:"quantity" json:"quantity"`
	TotalPrice   float64        `firestore:"totalPrice" json:"totalPrice"`
	Status       PurchaseStatus `firestore:"status" json:"status"`
	PurchaseDate time.Time      `firestore:"purchaseDate" json:"purchaseDate"`
}

// Key returns the document id.
func (p Purchase) Key() string {
	return p.ID
}

// Clone returns a copy of the purchase.
func (p Purchase) Clone() Purchase {
	return p
}

// Fields returns the document representation of the purchase.
func (p Purchase) Fields() map[string]any {
	return map[string]any{
		"userId":       p.UserID,
		"productId":    p.ProductID,
		"quantity":     p.Quantity,
		"totalPrice":   p.TotalPrice,
		"status":       string(p.Status),
		"purchaseDate": p.PurchaseDate,
	}
}
