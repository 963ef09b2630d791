package core

import (
	"context"
	"time"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// UserService defines the interface for user profile operations.
type UserService interface {
	// GetOrCreate retrieves a user by ID, creating the profile from the
	// auth token claims on first sign-in. The bool reports creation.
	GetOrCreate(ctx context.Context, userID, email, name, photoURL string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// FamilyService defines the interface for family and sharing operations.
type FamilyService interface {
	CreateFamily(ctx context.Context, userID string, req models.CreateFamilyRequest) (*models.Family, error)
	GetFamilyByID(ctx context.Context, userID, familyID string) (*models.Family, error)
	// ListFamilies resolves the families the user belongs to from the ids
	// stored on the user profile; ids pointing at missing documents are skipped.
	ListFamilies(ctx context.Context, userID string) ([]*models.Family, error)
	// JoinByCode adds the user to the family matching the invite code.
	// Codes are matched case-insensitively.
	JoinByCode(ctx context.Context, userID, inviteCode string) (*models.Family, error)
	GetActivity(ctx context.Context, userID, familyID string, limit int) ([]*models.Activity, error)
}

// ProductFilter narrows and orders a family's product listing.
type ProductFilter struct {
	Search   string // case-insensitive substring of the name
	Category string // one of models.ProductCategories, or empty for all
	SortBy   string // "name" (default), "quantity", or "alert" (low stock first)
}

// InventoryService defines the interface for pantry inventory operations.
type InventoryService interface {
	AddProduct(ctx context.Context, userID, familyID string, req models.CreateProductRequest) (*models.Product, error)
	ListProducts(ctx context.Context, userID, familyID string, filter ProductFilter) ([]*models.Product, error)
	// ListLowStock returns products where quantity <= minQuantity.
	ListLowStock(ctx context.Context, userID, familyID string) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, userID, familyID, productID string, req models.UpdateProductRequest) (*models.Product, error)
	// AdjustQuantity sets the stock level directly (the quick +/- control).
	AdjustQuantity(ctx context.Context, userID, familyID, productID string, quantity float64) (*models.Product, error)
	DeleteProduct(ctx context.Context, userID, familyID, productID string) error
}

// PurchaseService defines the interface for the purchase log.
type PurchaseService interface {
	// RegisterPurchase appends a purchase, adds the bought quantity to the
	// product's stock, and bumps the family's running totals.
	RegisterPurchase(ctx context.Context, userID, familyID string, req models.RegisterPurchaseRequest) (*models.Purchase, error)
	// MonthlyPurchases returns the family's purchases within the calendar
	// month, newest first.
	MonthlyPurchases(ctx context.Context, userID, familyID string, year int, month time.Month) ([]*models.Purchase, error)
}

// ListService defines the interface for shopping lists and their item lifecycle.
type ListService interface {
	CreateList(ctx context.Context, userID string, req models.CreateListRequest) (*models.ShoppingList, error)
	// GetListByID retrieves a list the user owns, was shared on, or can
	// reach through membership of the family it is attached to.
	GetListByID(ctx context.Context, userID, listID string) (*models.ShoppingList, error)
	// ListLists returns the user's active lists merged with those of
	// every family they belong to, newest first.
	ListLists(ctx context.Context, userID string) ([]*models.ShoppingList, error)
	DeleteList(ctx context.Context, userID, listID string) error
	AddItem(ctx context.Context, userID, listID string, req models.NewItemRequest) (*models.ShoppingList, error)
	ToggleItem(ctx context.Context, userID, listID, itemID string) (*models.ShoppingList, error)
	RemoveItem(ctx context.Context, userID, listID, itemID string) (*models.ShoppingList, error)
	// WatchList streams the list state to fn on every remote change until
	// ctx is cancelled.
	WatchList(ctx context.Context, userID, listID string, fn func(*models.ShoppingList)) error
}

// ActivityService defines the interface for the family activity feed.
type ActivityService interface {
	Record(ctx context.Context, entry models.Activity) error
	RecentForFamily(ctx context.Context, familyID string, limit int) ([]*models.Activity, error)
}
