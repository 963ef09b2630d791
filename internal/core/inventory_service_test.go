package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

func newInventoryServiceForTest(t *testing.T) (InventoryService, *fakeProductRepo, *fakeFamilyRepo, string) {
	t.Helper()
	productRepo := newFakeProductRepo()
	familyRepo := newFakeFamilyRepo()
	activityRepo := newFakeActivityRepo()

	familyID, err := familyRepo.Create(context.Background(), &models.Family{
		Name:    "Casa",
		Members: []string{"alice", "bob"},
		AdminID: "alice",
		Stats:   models.FamilyStats{MembersCount: 2},
	})
	require.NoError(t, err)

	svc := NewInventoryService(productRepo, familyRepo, NewActivityService(activityRepo))
	return svc, productRepo, familyRepo, familyID
}

func TestAddProduct_DefaultsAndStatsBump(t *testing.T) {
	svc, _, familyRepo, familyID := newInventoryServiceForTest(t)
	ctx := context.Background()

	product, err := svc.AddProduct(ctx, "alice", familyID, models.CreateProductRequest{
		Name:     "Leite",
		Category: "laticinios",
		Quantity: 6,
		Unit:     "L",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, familyID, product.FamilyID)
	assert.Equal(t, "alice", product.CreatedBy)
	// Omitted minimum falls back to the client default of 2.
	assert.Equal(t, 2.0, product.MinQuantity)

	family, err := familyRepo.GetByID(ctx, familyID)
	require.NoError(t, err)
	assert.Equal(t, 1, family.Stats.TotalProducts)
}

func TestAddProduct_Validation(t *testing.T) {
	svc, _, _, familyID := newInventoryServiceForTest(t)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "alice", familyID, models.CreateProductRequest{
		Name: "Leite", Category: "eletronicos", Unit: "L",
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.AddProduct(ctx, "alice", familyID, models.CreateProductRequest{
		Name: "Leite", Category: "laticinios", Unit: "galao",
	})
	assert.ErrorIs(t, err, ErrInvalidUnit)

	_, err = svc.AddProduct(ctx, "mallory", familyID, models.CreateProductRequest{
		Name: "Leite", Category: "laticinios", Unit: "L",
	})
	assert.ErrorIs(t, err, ErrForbiddenAccess)

	_, err = svc.AddProduct(ctx, "alice", "missing", models.CreateProductRequest{
		Name: "Leite", Category: "laticinios", Unit: "L",
	})
	assert.ErrorIs(t, err, ErrFamilyNotFound)
}

func TestListProducts_FilterAndSort(t *testing.T) {
	svc, _, _, familyID := newInventoryServiceForTest(t)
	ctx := context.Background()

	seed := []models.CreateProductRequest{
		{Name: "Arroz", Category: "graos", Quantity: 10, Unit: "kg", MinQuantity: 3},
		{Name: "Leite", Category: "laticinios", Quantity: 1, Unit: "L", MinQuantity: 2},
		{Name: "Leite Condensado", Category: "laticinios", Quantity: 5, Unit: "un", MinQuantity: 1},
	}
	for _, req := range seed {
		_, err := svc.AddProduct(ctx, "alice", familyID, req)
		require.NoError(t, err)
	}

	// Case-insensitive name search.
	products, err := svc.ListProducts(ctx, "alice", familyID, ProductFilter{Search: "leite"})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	// Category filter combined with search.
	products, err = svc.ListProducts(ctx, "alice", familyID, ProductFilter{Search: "condensado", Category: "laticinios"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Leite Condensado", products[0].Name)

	// Quantity sort, ascending.
	products, err = svc.ListProducts(ctx, "alice", familyID, ProductFilter{SortBy: "quantity"})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Leite", products[0].Name)
	assert.Equal(t, "Arroz", products[2].Name)

	// Alert sort puts low-stock products first.
	products, err = svc.ListProducts(ctx, "alice", familyID, ProductFilter{SortBy: "alert"})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Leite", products[0].Name)
}

func TestListLowStock_BoundaryIsInclusive(t *testing.T) {
	svc, _, _, familyID := newInventoryServiceForTest(t)
	ctx := context.Background()

	product, err := svc.AddProduct(ctx, "alice", familyID, models.CreateProductRequest{
		Name: "Leite", Category: "laticinios", Quantity: 2, Unit: "L", MinQuantity: 2,
	})
	require.NoError(t, err)

	// quantity == minQuantity counts as low stock.
	low, err := svc.ListLowStock(ctx, "alice", familyID)
	require.NoError(t, err)
	require.Len(t, low, 1)

	// Above the threshold the alert clears.
	_, err = svc.AdjustQuantity(ctx, "alice", familyID, product.ID, 3)
	require.NoError(t, err)
	low, err = svc.ListLowStock(ctx, "alice", familyID)
	require.NoError(t, err)
	assert.Empty(t, low)

	// And returns as soon as stock falls back.
	_, err = svc.AdjustQuantity(ctx, "alice", familyID, product.ID, 2)
	require.NoError(t, err)
	low, err = svc.ListLowStock(ctx, "alice", familyID)
	require.NoError(t, err)
	assert.Len(t, low, 1)
}

func TestUpdateProduct_PartialEdit(t *testing.T) {
	svc, _, _, familyID := newInventoryServiceForTest(t)
	ctx := context.Background()

	product, err := svc.AddProduct(ctx, "alice", familyID, models.CreateProductRequest{
		Name: "Leite", Category: "laticinios", Quantity: 6, Unit: "L", MinQuantity: 2,
	})
	require.NoError(t, err)

	newName := "Leite Integral"
	newMin := 4.0
	updated, err := svc.UpdateProduct(ctx, "bob", familyID, product.ID, models.UpdateProductRequest{
		Name:        &newName,
		MinQuantity: &newMin,
	})
	require.NoError(t, err)

	assert.Equal(t, "Leite Integral", updated.Name)
	assert.Equal(t, 4.0, updated.MinQuantity)
	// Untouched fields survive.
	assert.Equal(t, 6.0, updated.Quantity)
	assert.Equal(t, "laticinios", updated.Category)
	assert.Equal(t, "L", updated.Unit)

	badCategory := "eletronicos"
	_, err = svc.UpdateProduct(ctx, "bob", familyID, product.ID, models.UpdateProductRequest{Category: &badCategory})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestProductAccess_ScopedToFamily(t *testing.T) {
	svc, productRepo, familyRepo, familyID := newInventoryServiceForTest(t)
	ctx := context.Background()

	otherFamilyID, err := familyRepo.Create(ctx, &models.Family{
		Name: "Vizinhos", Members: []string{"alice"}, AdminID: "alice",
	})
	require.NoError(t, err)

	product, err := svc.AddProduct(ctx, "alice", familyID, models.CreateProductRequest{
		Name: "Leite", Category: "laticinios", Quantity: 6, Unit: "L",
	})
	require.NoError(t, err)

	// A valid product id cannot be addressed through another family.
	_, err = svc.AdjustQuantity(ctx, "alice", otherFamilyID, product.ID, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	err = svc.DeleteProduct(ctx, "alice", familyID, product.ID)
	require.NoError(t, err)
	_, err = productRepo.GetByID(ctx, product.ID)
	assert.Error(t, err)
}
