package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

const purchasesCollection = "purchases"

// firestorePurchaseRepository implements the PurchaseRepository interface using Firestore.
type firestorePurchaseRepository struct {
	client *firestore.Client
}

// NewFirestorePurchaseRepository creates a new instance of firestorePurchaseRepository.
func NewFirestorePurchaseRepository(client *firestore.Client) PurchaseRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PurchaseRepository.")
	}
	return &firestorePurchaseRepository{client: client}
}

// Create appends a purchase document with an auto-generated ID.
// Purchases are never updated or deleted.
func (r *firestorePurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) (string, error) {
	docRef := r.client.Collection(purchasesCollection).NewDoc()
	purchase.ID = docRef.ID

	_, err := docRef.Create(ctx, purchase)
	if err != nil {
		return "", fmt.Errorf("failed to create purchase: %w", err)
	}
	return docRef.ID, nil
}

// GetByFamilyAndRange returns purchases within [start, end], newest first.
// Requires the composite index on (familyId, purchaseDate).
func (r *firestorePurchaseRepository) GetByFamilyAndRange(ctx context.Context, familyID string, start, end time.Time) ([]*models.Purchase, error) {
	if familyID == "" {
		return nil, errors.New("familyID cannot be empty for GetByFamilyAndRange operation")
	}

	iter := r.client.Collection(purchasesCollection).
		Where("familyId", "==", familyID).
		Where("purchaseDate", ">=", start).
		Where("purchaseDate", "<=", end).
		OrderBy("purchaseDate", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var purchases []*models.Purchase
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate purchases for family '%s': %w", familyID, err)
		}

		var purchase models.Purchase
		if err := doc.DataTo(&purchase); err != nil {
			log.Printf("Error decoding purchase data (ID: %s) for family '%s': %v. Skipping.", doc.Ref.ID, familyID, err)
			continue
		}
		purchase.ID = doc.Ref.ID
		purchases = append(purchases, &purchase)
	}

	return purchases, nil
}
