package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

const activityCollection = "activity"

// firestoreActivityRepository implements the ActivityRepository interface using Firestore.
type firestoreActivityRepository struct {
	client *firestore.Client
}

// NewFirestoreActivityRepository creates a new instance of firestoreActivityRepository.
func NewFirestoreActivityRepository(client *firestore.Client) ActivityRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ActivityRepository.")
	}
	return &firestoreActivityRepository{client: client}
}

// Create appends an activity entry with an auto-generated ID.
func (r *firestoreActivityRepository) Create(ctx context.Context, entry models.Activity) error {
	_, _, err := r.client.Collection(activityCollection).Add(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}
	return nil
}

// GetRecentByFamily returns the newest activity entries for a family.
// Requires the composite index on (familyId, timestamp).
func (r *firestoreActivityRepository) GetRecentByFamily(ctx context.Context, familyID string, limit int) ([]*models.Activity, error) {
	if familyID == "" {
		return nil, errors.New("familyID cannot be empty for GetRecentByFamily operation")
	}
	if limit <= 0 {
		limit = 50
	}

	iter := r.client.Collection(activityCollection).
		Where("familyId", "==", familyID).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var entries []*models.Activity
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate activity for family '%s': %w", familyID, err)
		}

		var entry models.Activity
		if err := doc.DataTo(&entry); err != nil {
			log.Printf("Error decoding activity entry (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		entry.ID = doc.Ref.ID
		entries = append(entries, &entry)
	}

	return entries, nil
}
