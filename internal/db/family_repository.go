package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

const familiesCollection = "families"

// firestoreFamilyRepository implements the FamilyRepository interface using Firestore.
type firestoreFamilyRepository struct {
	client *firestore.Client
}

// NewFirestoreFamilyRepository creates a new instance of firestoreFamilyRepository.
func NewFirestoreFamilyRepository(client *firestore.Client) FamilyRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for FamilyRepository.")
	}
	return &firestoreFamilyRepository{client: client}
}

// Create adds a new family document with an auto-generated ID and sets
// family.ID before saving.
func (r *firestoreFamilyRepository) Create(ctx context.Context, family *models.Family) (string, error) {
	docRef := r.client.Collection(familiesCollection).NewDoc()
	family.ID = docRef.ID

	_, err := docRef.Create(ctx, family)
	if err != nil {
		return "", fmt.Errorf("failed to create family: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a family document by its ID.
func (r *firestoreFamilyRepository) GetByID(ctx context.Context, familyID string) (*models.Family, error) {
	if familyID == "" {
		return nil, errors.New("familyID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(familiesCollection).Doc(familyID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("family with ID '%s' not found: %w", familyID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get family with ID '%s': %w", familyID, err)
	}

	var family models.Family
	if err := docSnap.DataTo(&family); err != nil {
		return nil, fmt.Errorf("failed to decode family data for ID '%s': %w", familyID, err)
	}
	family.ID = docSnap.Ref.ID

	return &family, nil
}

// GetByInviteCode looks up a family by exact invite code match.
// Invite codes are stored upper-case; callers normalize before querying.
func (r *firestoreFamilyRepository) GetByInviteCode(ctx context.Context, code string) (*models.Family, error) {
	if code == "" {
		return nil, errors.New("code cannot be empty for GetByInviteCode operation")
	}

	iter := r.client.Collection(familiesCollection).
		Where("inviteCode", "==", code).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("family with invite code '%s' not found: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query family by invite code: %w", err)
	}

	var family models.Family
	if err := doc.DataTo(&family); err != nil {
		return nil, fmt.Errorf("failed to decode family data for invite code '%s': %w", code, err)
	}
	family.ID = doc.Ref.ID

	return &family, nil
}

// AddMember appends the user to the member set and records the new member
// count in the family stats, the same two field updates the client issued.
func (r *firestoreFamilyRepository) AddMember(ctx context.Context, familyID, userID string, membersCount int) error {
	if familyID == "" || userID == "" {
		return errors.New("familyID and userID are required for AddMember")
	}
	_, err := r.client.Collection(familiesCollection).Doc(familyID).Update(ctx, []firestore.Update{
		{Path: "members", Value: firestore.ArrayUnion(userID)},
		{Path: "stats.membersCount", Value: membersCount},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("family with ID '%s' not found: %w", familyID, ErrNotFound)
		}
		return fmt.Errorf("failed to add member '%s' to family '%s': %w", userID, familyID, err)
	}
	return nil
}

// IncrementStats adjusts the family's running totals by the given deltas.
// Firestore applies each increment atomically per document.
func (r *firestoreFamilyRepository) IncrementStats(ctx context.Context, familyID string, products, purchases int, spent float64) error {
	if familyID == "" {
		return errors.New("familyID cannot be empty for IncrementStats operation")
	}

	updates := make([]firestore.Update, 0, 4)
	if products != 0 {
		updates = append(updates, firestore.Update{Path: "stats.totalProducts", Value: firestore.Increment(products)})
	}
	if purchases != 0 {
		updates = append(updates, firestore.Update{Path: "stats.totalPurchases", Value: firestore.Increment(purchases)})
	}
	if spent != 0 {
		updates = append(updates, firestore.Update{Path: "stats.totalSpent", Value: firestore.Increment(spent)})
	}
	if len(updates) == 0 {
		return nil
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	_, err := r.client.Collection(familiesCollection).Doc(familyID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("family with ID '%s' not found: %w", familyID, ErrNotFound)
		}
		return fmt.Errorf("failed to increment stats for family '%s': %w", familyID, err)
	}
	return nil
}
