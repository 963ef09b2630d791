package models

import "time"

// Product categories match the fixed set the client offers.
var ProductCategories = []string{
	"frutas", "vegetais", "laticinios", "carnes", "graos",
	"bebidas", "limpeza", "higiene", "outros",
}

// Measurement units accepted for products and list items.
var Units = []string{"un", "kg", "g", "L", "mL", "cx", "pct"}

// Product is a pantry inventory item owned by a family.
type Product struct {
	ID             string    `json:"id" firestore:"-"`
	FamilyID       string    `json:"familyId" firestore:"familyId"`
	Name           string    `json:"name" firestore:"name"`
	Category       string    `json:"category" firestore:"category"`
	Quantity       float64   `json:"quantity" firestore:"quantity"`
	Unit           string    `json:"unit" firestore:"unit"`
	MinQuantity    float64   `json:"minQuantity" firestore:"minQuantity"`
	LastPrice      float64   `json:"lastPrice,omitempty" firestore:"lastPrice,omitempty"`
	LastPurchaseAt time.Time `json:"lastPurchaseAt" firestore:"lastPurchaseAt"`
	CreatedBy      string    `json:"createdBy" firestore:"createdBy"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt      time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// LowStock reports whether the product has fallen to or below its
// configured minimum. The flag clears the instant quantity exceeds the
// threshold; there is no hysteresis.
func (p *Product) LowStock() bool {
	return p.Quantity <= p.MinQuantity
}

// ValidCategory reports whether c is one of the fixed product categories.
func ValidCategory(c string) bool {
	for _, known := range ProductCategories {
		if known == c {
			return true
		}
	}
	return false
}

// ValidUnit reports whether u is one of the accepted measurement units.
func ValidUnit(u string) bool {
	for _, known := range Units {
		if known == u {
			return true
		}
	}
	return false
}
