package models

import "time"

// Purchase is an append-only record of a product being bought.
// Registering a purchase also bumps the referenced product's stock and
// the family's running totals; see core.PurchaseService.
type Purchase struct {
	ID           string    `json:"id" firestore:"-"`
	FamilyID     string    `json:"familyId" firestore:"familyId"`
	UserID       string    `json:"userId" firestore:"userId"`
	ProductID    string    `json:"productId" firestore:"productId"`
	ProductName  string    `json:"productName" firestore:"productName"`
	Quantity     float64   `json:"quantity" firestore:"quantity"`
	UnitPrice    float64   `json:"unitPrice" firestore:"unitPrice"`
	TotalPrice   float64   `json:"totalPrice" firestore:"totalPrice"`
	PurchaseDate time.Time `json:"purchaseDate" firestore:"purchaseDate,serverTimestamp"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
