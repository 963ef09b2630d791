package db

import (
	"context"
	"time"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// UserRepository defines the interface for user profile storage.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	// AttachFamily appends a family id to the user's membership list and
	// makes it the active family.
	AttachFamily(ctx context.Context, userID, familyID string) error
}

// FamilyRepository defines the interface for family storage.
type FamilyRepository interface {
	Create(ctx context.Context, family *models.Family) (string, error)
	GetByID(ctx context.Context, familyID string) (*models.Family, error)
	// GetByInviteCode looks up a family by its invite code. The code is
	// matched exactly; callers normalize case first.
	GetByInviteCode(ctx context.Context, code string) (*models.Family, error)
	// AddMember appends the user to the member set and records the new
	// member count in the family stats.
	AddMember(ctx context.Context, familyID, userID string, membersCount int) error
	// IncrementStats adjusts the family's running totals by the given deltas.
	IncrementStats(ctx context.Context, familyID string, products, purchases int, spent float64) error
}

// ProductRepository defines the interface for pantry product storage.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (string, error)
	GetByID(ctx context.Context, productID string) (*models.Product, error)
	// GetByFamilyID returns the family's products ordered by name.
	GetByFamilyID(ctx context.Context, familyID string) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, productID string) error
}

// PurchaseRepository defines the interface for the append-only purchase log.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) (string, error)
	// GetByFamilyAndRange returns purchases within [start, end], newest first.
	GetByFamilyAndRange(ctx context.Context, familyID string, start, end time.Time) ([]*models.Purchase, error)
}

// ListRepository defines the interface for shopping list storage.
type ListRepository interface {
	Create(ctx context.Context, list *models.ShoppingList) (string, error)
	GetByID(ctx context.Context, listID string) (*models.ShoppingList, error)
	// GetActiveForUser returns active lists whose sharedWith includes the
	// user, newest first. Owners are always present in sharedWith.
	GetActiveForUser(ctx context.Context, userID string) ([]*models.ShoppingList, error)
	// GetActiveByFamily returns a family's active lists, newest first.
	GetActiveByFamily(ctx context.Context, familyID string) ([]*models.ShoppingList, error)
	Update(ctx context.Context, list *models.ShoppingList) error
	Delete(ctx context.Context, listID string) error
	// Watch invokes fn with the current list state on every remote change
	// until ctx is cancelled. The first invocation carries the initial state.
	Watch(ctx context.Context, listID string, fn func(*models.ShoppingList)) error
}

// ActivityRepository defines the interface for the family activity feed.
type ActivityRepository interface {
	Create(ctx context.Context, entry models.Activity) error
	GetRecentByFamily(ctx context.Context, familyID string, limit int) ([]*models.Activity, error)
}
