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

const listsCollection = "shoppingLists"

// firestoreListRepository implements the ListRepository interface using Firestore.
type firestoreListRepository struct {
	client *firestore.Client
}

// NewFirestoreListRepository creates a new instance of firestoreListRepository.
func NewFirestoreListRepository(client *firestore.Client) ListRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ListRepository.")
	}
	return &firestoreListRepository{client: client}
}

// Create adds a new shopping list document with an auto-generated ID.
func (r *firestoreListRepository) Create(ctx context.Context, list *models.ShoppingList) (string, error) {
	docRef := r.client.Collection(listsCollection).NewDoc()
	list.ID = docRef.ID

	_, err := docRef.Create(ctx, list)
	if err != nil {
		return "", fmt.Errorf("failed to create shopping list: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a shopping list document by its ID.
func (r *firestoreListRepository) GetByID(ctx context.Context, listID string) (*models.ShoppingList, error) {
	if listID == "" {
		return nil, errors.New("listID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(listsCollection).Doc(listID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("shopping list with ID '%s' not found: %w", listID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shopping list with ID '%s': %w", listID, err)
	}

	var list models.ShoppingList
	if err := docSnap.DataTo(&list); err != nil {
		return nil, fmt.Errorf("failed to decode shopping list data for ID '%s': %w", listID, err)
	}
	list.ID = docSnap.Ref.ID

	return &list, nil
}

// GetActiveForUser returns active lists whose sharedWith includes the
// user, newest first. Owners are seeded into sharedWith on creation, so
// this covers owned and individually shared lists in one query.
// Requires the composite index on (sharedWith, status, createdAt).
func (r *firestoreListRepository) GetActiveForUser(ctx context.Context, userID string) ([]*models.ShoppingList, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetActiveForUser operation")
	}

	iter := r.client.Collection(listsCollection).
		Where("sharedWith", "array-contains", userID).
		Where("status", "==", models.ListStatusActive).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	return r.collectLists(iter, "user "+userID)
}

// GetActiveByFamily returns a family's active lists, newest first.
// Requires the composite index on (familyId, status, createdAt).
func (r *firestoreListRepository) GetActiveByFamily(ctx context.Context, familyID string) ([]*models.ShoppingList, error) {
	if familyID == "" {
		return nil, errors.New("familyID cannot be empty for GetActiveByFamily operation")
	}

	iter := r.client.Collection(listsCollection).
		Where("familyId", "==", familyID).
		Where("status", "==", models.ListStatusActive).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	return r.collectLists(iter, "family "+familyID)
}

func (r *firestoreListRepository) collectLists(iter *firestore.DocumentIterator, scope string) ([]*models.ShoppingList, error) {
	var lists []*models.ShoppingList
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate shopping lists for %s: %w", scope, err)
		}

		var list models.ShoppingList
		if err := doc.DataTo(&list); err != nil {
			log.Printf("Error decoding shopping list data (ID: %s) for %s: %v. Skipping.", doc.Ref.ID, scope, err)
			continue
		}
		list.ID = doc.Ref.ID
		lists = append(lists, &list)
	}

	return lists, nil
}

// Update writes the whole list document back. Item mutations always go
// through the service layer, which holds the complete current state, so
// a full Set (no merge) keeps removed items from lingering.
func (r *firestoreListRepository) Update(ctx context.Context, list *models.ShoppingList) error {
	if list.ID == "" {
		return errors.New("list ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(listsCollection).Doc(list.ID).Set(ctx, list)
	if err != nil {
		return fmt.Errorf("failed to update shopping list with ID '%s': %w", list.ID, err)
	}
	return nil
}

// Delete removes a shopping list document together with its embedded items.
func (r *firestoreListRepository) Delete(ctx context.Context, listID string) error {
	if listID == "" {
		return errors.New("listID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(listsCollection).Doc(listID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("shopping list with ID '%s' not found for deletion: %w", listID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete shopping list with ID '%s': %w", listID, err)
	}
	return nil
}

// Watch registers a snapshot listener on the list document and invokes fn
// with the decoded state on every change, starting with the current state.
// It blocks until ctx is cancelled or the listener fails. The listener is
// released when this returns.
func (r *firestoreListRepository) Watch(ctx context.Context, listID string, fn func(*models.ShoppingList)) error {
	if listID == "" {
		return errors.New("listID cannot be empty for Watch operation")
	}

	snapIter := r.client.Collection(listsCollection).Doc(listID).Snapshots(ctx)
	defer snapIter.Stop()

	for {
		snap, err := snapIter.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("snapshot listener failed for shopping list '%s': %w", listID, err)
		}
		if !snap.Exists() {
			return fmt.Errorf("shopping list with ID '%s' was deleted: %w", listID, ErrNotFound)
		}

		var list models.ShoppingList
		if err := snap.DataTo(&list); err != nil {
			log.Printf("Error decoding shopping list snapshot (ID: %s): %v. Skipping update.", listID, err)
			continue
		}
		list.ID = snap.Ref.ID
		fn(&list)
	}
}
