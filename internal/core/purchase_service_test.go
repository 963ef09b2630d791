package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

func newPurchaseServiceForTest(t *testing.T) (PurchaseService, *fakeProductRepo, *fakeFamilyRepo, *fakePurchaseRepo, string) {
	t.Helper()
	purchaseRepo := newFakePurchaseRepo()
	productRepo := newFakeProductRepo()
	familyRepo := newFakeFamilyRepo()
	activityRepo := newFakeActivityRepo()

	familyID, err := familyRepo.Create(context.Background(), &models.Family{
		Name:    "Casa",
		Members: []string{"alice"},
		AdminID: "alice",
	})
	require.NoError(t, err)

	svc := NewPurchaseService(purchaseRepo, productRepo, familyRepo, NewActivityService(activityRepo))
	return svc, productRepo, familyRepo, purchaseRepo, familyID
}

func TestRegisterPurchase_AddsStockAndBumpsTotals(t *testing.T) {
	svc, productRepo, familyRepo, _, familyID := newPurchaseServiceForTest(t)
	ctx := context.Background()

	productID, err := productRepo.Create(ctx, &models.Product{
		FamilyID: familyID, Name: "Leite", Category: "laticinios",
		Quantity: 1, Unit: "L", MinQuantity: 2,
	})
	require.NoError(t, err)

	purchase, err := svc.RegisterPurchase(ctx, "alice", familyID, models.RegisterPurchaseRequest{
		ProductID: productID,
		Quantity:  6,
		UnitPrice: 4.5,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, purchase.ID)
	// Omitted total is derived from quantity * unit price.
	assert.InDelta(t, 27.0, purchase.TotalPrice, 1e-9)
	// Product name is backfilled from the inventory record.
	assert.Equal(t, "Leite", purchase.ProductName)

	// Stock is additive, never replaced.
	product, err := productRepo.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, product.Quantity, 1e-9)
	assert.InDelta(t, 4.5, product.LastPrice, 1e-9)
	assert.False(t, product.LastPurchaseAt.IsZero())

	family, err := familyRepo.GetByID(ctx, familyID)
	require.NoError(t, err)
	assert.Equal(t, 1, family.Stats.TotalPurchases)
	assert.InDelta(t, 27.0, family.Stats.TotalSpent, 1e-9)
}

func TestRegisterPurchase_ToleratesMissingProduct(t *testing.T) {
	svc, _, familyRepo, purchaseRepo, familyID := newPurchaseServiceForTest(t)
	ctx := context.Background()

	purchase, err := svc.RegisterPurchase(ctx, "alice", familyID, models.RegisterPurchaseRequest{
		ProductID:   "deleted-product",
		ProductName: "Leite",
		Quantity:    2,
		TotalPrice:  9.0,
	})
	require.NoError(t, err)
	assert.InDelta(t, 9.0, purchase.TotalPrice, 1e-9)

	// The purchase is still recorded and counted.
	assert.Len(t, purchaseRepo.purchases, 1)
	family, err := familyRepo.GetByID(ctx, familyID)
	require.NoError(t, err)
	assert.Equal(t, 1, family.Stats.TotalPurchases)
}

func TestRegisterPurchase_Validation(t *testing.T) {
	svc, _, _, _, familyID := newPurchaseServiceForTest(t)
	ctx := context.Background()

	_, err := svc.RegisterPurchase(ctx, "alice", familyID, models.RegisterPurchaseRequest{
		ProductID: "p", Quantity: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidPurchase)

	_, err = svc.RegisterPurchase(ctx, "mallory", familyID, models.RegisterPurchaseRequest{
		ProductID: "p", Quantity: 1,
	})
	assert.ErrorIs(t, err, ErrForbiddenAccess)

	_, err = svc.RegisterPurchase(ctx, "alice", "missing", models.RegisterPurchaseRequest{
		ProductID: "p", Quantity: 1,
	})
	assert.ErrorIs(t, err, ErrFamilyNotFound)
}

func TestMonthlyPurchases_CalendarBoundaries(t *testing.T) {
	svc, _, _, purchaseRepo, familyID := newPurchaseServiceForTest(t)
	ctx := context.Background()

	stamp := func(ts time.Time) {
		_, err := purchaseRepo.Create(ctx, &models.Purchase{
			FamilyID:     familyID,
			UserID:       "alice",
			ProductID:    "p",
			Quantity:     1,
			TotalPrice:   10,
			PurchaseDate: ts,
		})
		require.NoError(t, err)
	}

	stamp(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	stamp(time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC))
	stamp(time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC))
	stamp(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))

	purchases, err := svc.MonthlyPurchases(ctx, "alice", familyID, 2026, time.March)
	require.NoError(t, err)
	assert.Len(t, purchases, 2)

	_, err = svc.MonthlyPurchases(ctx, "mallory", familyID, 2026, time.March)
	assert.ErrorIs(t, err, ErrForbiddenAccess)
}
