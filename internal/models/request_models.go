package models

// CreateFamilyRequest represents the request body for creating a family.
type CreateFamilyRequest struct {
	Name string `json:"name" binding:"required"`
}

// JoinFamilyRequest represents the request body for joining a family by invite code.
type JoinFamilyRequest struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// CreateProductRequest represents the request body for adding a product to the inventory.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit" binding:"required"`
	MinQuantity float64 `json:"minQuantity"`
}

// UpdateProductRequest represents the request body for editing a product.
// Pointers distinguish "not provided" from zero values.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	MinQuantity *float64 `json:"minQuantity,omitempty"`
}

// AdjustQuantityRequest represents the quick stock adjustment body.
type AdjustQuantityRequest struct {
	Quantity float64 `json:"quantity"`
}

// RegisterPurchaseRequest represents the request body for recording a purchase.
type RegisterPurchaseRequest struct {
	ProductID   string  `json:"productId" binding:"required"`
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// NewItemRequest is an item payload inside list creation or item addition.
type NewItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// CreateListRequest represents the request body for creating a shopping list.
type CreateListRequest struct {
	Name     string           `json:"name" binding:"required"`
	FamilyID string           `json:"familyId,omitempty"`
	Items    []NewItemRequest `json:"items,omitempty"`
}
