package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/db"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// Custom errors for the InventoryService.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidCategory = errors.New("invalid product category")
	ErrInvalidUnit     = errors.New("invalid measurement unit")
)

// inventoryService implements the InventoryService interface.
type inventoryService struct {
	productRepo     db.ProductRepository
	familyRepo      db.FamilyRepository
	activityService ActivityService
}

// NewInventoryService creates a new InventoryService instance.
func NewInventoryService(pr db.ProductRepository, fr db.FamilyRepository, as ActivityService) InventoryService {
	return &inventoryService{
		productRepo:     pr,
		familyRepo:      fr,
		activityService: as,
	}
}

// requireMember loads the family and verifies membership.
func (s *inventoryService) requireMember(ctx context.Context, userID, familyID string) (*models.Family, error) {
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
	return family, nil
}

// AddProduct adds a product to the family inventory and bumps the
// family's totalProducts counter (a second, independent write).
func (s *inventoryService) AddProduct(ctx context.Context, userID, familyID string, req models.CreateProductRequest) (*models.Product, error) {
	if s.productRepo == nil || s.familyRepo == nil {
		return nil, errors.New("inventoryService: component not initialized")
	}

	if _, err := s.requireMember(ctx, userID, familyID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("product name cannot be empty")
	}
	if !models.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidCategory, req.Category)
	}
	if !models.ValidUnit(req.Unit) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidUnit, req.Unit)
	}

	minQuantity := req.MinQuantity
	if minQuantity <= 0 {
		minQuantity = 2 // client default
	}

	newProduct := &models.Product{
		FamilyID:    familyID,
		Name:        name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		MinQuantity: minQuantity,
		CreatedBy:   userID,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	productID, err := s.productRepo.Create(ctx, newProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to create product in repository: %w", err)
	}
	newProduct.ID = productID

	if err := s.familyRepo.IncrementStats(ctx, familyID, 1, 0, 0); err != nil {
		fmt.Printf("Warning: product '%s' created but totalProducts bump failed for family '%s': %v\n", productID, familyID, err)
	}

	s.record(ctx, models.Activity{
		FamilyID:   familyID,
		UserID:     userID,
		Action:     "PRODUCT_ADD",
		TargetType: "PRODUCT",
		TargetID:   productID,
		Details:    map[string]interface{}{"name": newProduct.Name, "category": newProduct.Category},
	})

	return newProduct, nil
}

// ListProducts returns the family's products with the client-style
// filtering and sorting applied: name substring search, category match,
// and ordering by name, quantity, or low-stock-first.
func (s *inventoryService) ListProducts(ctx context.Context, userID, familyID string, filter ProductFilter) ([]*models.Product, error) {
	if s.productRepo == nil || s.familyRepo == nil {
		return nil, errors.New("inventoryService: component not initialized")
	}

	if _, err := s.requireMember(ctx, userID, familyID); err != nil {
		return nil, err
	}

	products, err := s.productRepo.GetByFamilyID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for family '%s': %w", familyID, err)
	}

	if filter.Search != "" || filter.Category != "" {
		search := strings.ToLower(filter.Search)
		filtered := products[:0]
		for _, p := range products {
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			if filter.Category != "" && p.Category != filter.Category {
				continue
			}
			filtered = append(filtered, p)
		}
		products = filtered
	}

	switch filter.SortBy {
	case "quantity":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Quantity < products[j].Quantity
		})
	case "alert":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].LowStock() && !products[j].LowStock()
		})
	default:
		// Repository already orders by name.
	}

	return products, nil
}

// ListLowStock returns the products that have fallen to or below their
// minimum quantity.
func (s *inventoryService) ListLowStock(ctx context.Context, userID, familyID string) ([]*models.Product, error) {
	products, err := s.ListProducts(ctx, userID, familyID, ProductFilter{})
	if err != nil {
		return nil, err
	}

	lowStock := make([]*models.Product, 0)
	for _, p := range products {
		if p.LowStock() {
			lowStock = append(lowStock, p)
		}
	}
	return lowStock, nil
}

// UpdateProduct edits a product; nil request fields are left untouched.
func (s *inventoryService) UpdateProduct(ctx context.Context, userID, familyID, productID string, req models.UpdateProductRequest) (*models.Product, error) {
	if s.productRepo == nil || s.familyRepo == nil {
		return nil, errors.New("inventoryService: component not initialized")
	}

	if _, err := s.requireMember(ctx, userID, familyID); err != nil {
		return nil, err
	}

	product, err := s.getFamilyProduct(ctx, familyID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.New("product name cannot be empty")
		}
		product.Name = name
	}
	if req.Category != nil {
		if !models.ValidCategory(*req.Category) {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidCategory, *req.Category)
		}
		product.Category = *req.Category
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		if !models.ValidUnit(*req.Unit) {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidUnit, *req.Unit)
		}
		product.Unit = *req.Unit
	}
	if req.MinQuantity != nil {
		product.MinQuantity = *req.MinQuantity
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product '%s': %w", productID, err)
	}

	return product, nil
}

// AdjustQuantity sets the stock level directly, the quick +/- control on
// the inventory view.
func (s *inventoryService) AdjustQuantity(ctx context.Context, userID, familyID, productID string, quantity float64) (*models.Product, error) {
	if s.productRepo == nil || s.familyRepo == nil {
		return nil, errors.New("inventoryService: component not initialized")
	}

	if _, err := s.requireMember(ctx, userID, familyID); err != nil {
		return nil, err
	}

	product, err := s.getFamilyProduct(ctx, familyID, productID)
	if err != nil {
		return nil, err
	}

	product.Quantity = quantity
	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to adjust quantity of product '%s': %w", productID, err)
	}

	return product, nil
}

// DeleteProduct removes a product from the inventory. No history is kept.
func (s *inventoryService) DeleteProduct(ctx context.Context, userID, familyID, productID string) error {
	if s.productRepo == nil || s.familyRepo == nil {
		return errors.New("inventoryService: component not initialized")
	}

	if _, err := s.requireMember(ctx, userID, familyID); err != nil {
		return err
	}

	product, err := s.getFamilyProduct(ctx, familyID, productID)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product '%s': %w", productID, err)
	}

	s.record(ctx, models.Activity{
		FamilyID:   familyID,
		UserID:     userID,
		Action:     "PRODUCT_DELETE",
		TargetType: "PRODUCT",
		TargetID:   productID,
		Details:    map[string]interface{}{"name": product.Name},
	})

	return nil
}

// getFamilyProduct fetches a product and checks it belongs to the family,
// so one family's ids cannot address another family's inventory.
func (s *inventoryService) getFamilyProduct(ctx context.Context, familyID, productID string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to get product '%s': %w", productID, err)
	}
	if product.FamilyID != familyID {
		return nil, fmt.Errorf("%w: product '%s' does not belong to family '%s'", ErrProductNotFound, productID, familyID)
	}
	return product, nil
}

func (s *inventoryService) record(ctx context.Context, entry models.Activity) {
	if s.activityService == nil {
		return
	}
	entry.Timestamp = time.Now().UTC()
	if err := s.activityService.Record(ctx, entry); err != nil {
		fmt.Printf("Warning: failed to record activity %s (family %s): %v\n", entry.Action, entry.FamilyID, err)
	}
}
