package models

import "time"

// Shopping list status values.
const (
	ListStatusActive    = "active"
	ListStatusCompleted = "completed"
)

// Item is a single purchasable entry embedded in a shopping list.
// Items have no lifecycle of their own; the list owns them.
type Item struct {
	ID          string    `json:"id" firestore:"id"`
	Name        string    `json:"name" firestore:"name"`
	Quantity    string    `json:"quantity" firestore:"quantity"`
	Unit        string    `json:"unit" firestore:"unit"`
	Completed   bool      `json:"completed" firestore:"completed"`
	CompletedBy string    `json:"completedBy,omitempty" firestore:"completedBy,omitempty"`
	CompletedAt time.Time `json:"completedAt" firestore:"completedAt"`
	AddedAt     time.Time `json:"addedAt" firestore:"addedAt"`
}

// ShoppingList is a named, ordered collection of items with derived
// completion counters. TotalItems and CompletedItems are denormalized
// and must be recomputed from Items by every mutator.
type ShoppingList struct {
	ID             string    `json:"id" firestore:"-"`
	Name           string    `json:"name" firestore:"name"`
	OwnerID        string    `json:"ownerId" firestore:"ownerId"`
	FamilyID       string    `json:"familyId,omitempty" firestore:"familyId,omitempty"`
	Status         string    `json:"status" firestore:"status"`
	Items          []Item    `json:"items" firestore:"items"`
	TotalItems     int       `json:"totalItems" firestore:"totalItems"`
	CompletedItems int       `json:"completedItems" firestore:"completedItems"`
	SharedWith     []string  `json:"sharedWith" firestore:"sharedWith"`
	LastEditedBy   string    `json:"lastEditedBy,omitempty" firestore:"lastEditedBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt      time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Recount recomputes the denormalized counters from the authoritative
// item slice. Mutators call this instead of adjusting counters by
// deltas, so concurrent edits cannot make them drift.
func (l *ShoppingList) Recount() {
	completed := 0
	for _, it := range l.Items {
		if it.Completed {
			completed++
		}
	}
	l.TotalItems = len(l.Items)
	l.CompletedItems = completed
}

// CanRead reports whether the user holds a direct grant on the list
// (owner or sharedWith). Family-membership grants for family-attached
// lists are resolved at the service layer, which can load the family.
func (l *ShoppingList) CanRead(userID string) bool {
	if l.OwnerID == userID {
		return true
	}
	for _, id := range l.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}
