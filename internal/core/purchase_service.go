package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/db"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// ErrInvalidPurchase is returned for purchases with a non-positive quantity.
var ErrInvalidPurchase = errors.New("invalid purchase")

// purchaseService implements the PurchaseService interface.
type purchaseService struct {
	purchaseRepo    db.PurchaseRepository
	productRepo     db.ProductRepository
	familyRepo      db.FamilyRepository
	activityService ActivityService
}

// NewPurchaseService creates a new PurchaseService instance.
func NewPurchaseService(pr db.PurchaseRepository, prodRepo db.ProductRepository, fr db.FamilyRepository, as ActivityService) PurchaseService {
	return &purchaseService{
		purchaseRepo:    pr,
		productRepo:     prodRepo,
		familyRepo:      fr,
		activityService: as,
	}
}

// RegisterPurchase appends a purchase record, then adds the bought
// quantity to the product's stock and stamps the last price, then bumps
// the family totals. The three writes are sequential and independent; a
// failure after the first leaves the purchase recorded without the
// derived updates (reference semantics, no rollback). A missing product
// is tolerated: the purchase still counts.
func (s *purchaseService) RegisterPurchase(ctx context.Context, userID, familyID string, req models.RegisterPurchaseRequest) (*models.Purchase, error) {
	if s.purchaseRepo == nil || s.productRepo == nil || s.familyRepo == nil {
		return nil, errors.New("purchaseService: component not initialized")
	}

	family, err := s.familyRepo.GetByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrFamilyNotFound, familyID)
		}
		return nil, fmt.Errorf("failed to get family '%s': %w", familyID, err)
	}
	if !family.HasMember(userID) {
		return nil, fmt.Errorf("%w: user '%s' is not a member of family '%s'", ErrForbiddenAccess, userID, familyID)
	}

	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidPurchase)
	}

	totalPrice := req.TotalPrice
	if totalPrice == 0 {
		totalPrice = req.Quantity * req.UnitPrice
	}

	now := time.Now().UTC()
	purchase := &models.Purchase{
		FamilyID:     familyID,
		UserID:       userID,
		ProductID:    req.ProductID,
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		TotalPrice:   totalPrice,
		PurchaseDate: now,
		CreatedAt:    now,
	}

	purchaseID, err := s.purchaseRepo.Create(ctx, purchase)
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase in repository: %w", err)
	}
	purchase.ID = purchaseID

	// Stock update: additive, skipped if the product no longer exists.
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			fmt.Printf("Warning: purchase '%s' recorded but product '%s' lookup failed: %v\n", purchaseID, req.ProductID, err)
		}
	} else {
		product.Quantity += req.Quantity
		product.LastPrice = req.UnitPrice
		product.LastPurchaseAt = now
		product.UpdatedAt = now
		if purchase.ProductName == "" {
			purchase.ProductName = product.Name
		}
		if err := s.productRepo.Update(ctx, product); err != nil {
			fmt.Printf("Warning: purchase '%s' recorded but stock update for product '%s' failed: %v\n", purchaseID, product.ID, err)
		}
	}

	if err := s.familyRepo.IncrementStats(ctx, familyID, 0, 1, totalPrice); err != nil {
		fmt.Printf("Warning: purchase '%s' recorded but family stats bump failed for '%s': %v\n", purchaseID, familyID, err)
	}

	if s.activityService != nil {
		entry := models.Activity{
			FamilyID:   familyID,
			UserID:     userID,
			Action:     "PURCHASE_REGISTER",
			TargetType: "PURCHASE",
			TargetID:   purchaseID,
			Details:    map[string]interface{}{"totalPrice": totalPrice, "productId": req.ProductID},
			Timestamp:  now,
		}
		if recErr := s.activityService.Record(ctx, entry); recErr != nil {
			fmt.Printf("Warning: failed to record activity PURCHASE_REGISTER (family %s): %v\n", familyID, recErr)
		}
	}

	return purchase, nil
}

// MonthlyPurchases returns the family's purchases within the calendar
// month, newest first. Month boundaries are computed in UTC.
func (s *purchaseService) MonthlyPurchases(ctx context.Context, userID, familyID string, year int, month time.Month) ([]*models.Purchase, error) {
	if s.purchaseRepo == nil || s.familyRepo == nil {
		return nil, errors.New("purchaseService: component not initialized")
	}

	family, err := s.familyRepo.GetByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrFamilyNotFound, familyID)
		}
		return nil, fmt.Errorf("failed to get family '%s': %w", familyID, err)
	}
	if !family.HasMember(userID) {
		return nil, fmt.Errorf("%w: user '%s' is not a member of family '%s'", ErrForbiddenAccess, userID, familyID)
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	purchases, err := s.purchaseRepo.GetByFamilyAndRange(ctx, familyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases for family '%s': %w", familyID, err)
	}
	return purchases, nil
}
