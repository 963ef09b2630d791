package models

import "time"

// User represents an application user profile.
// The document ID is the Firebase Auth UID.
type User struct {
	ID             string    `json:"id" firestore:"-"`
	Name           string    `json:"name" firestore:"name"`
	Email          string    `json:"email" firestore:"email"`
	PhotoURL       string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Families       []string  `json:"families" firestore:"families"`
	ActiveFamilyID string    `json:"activeFamilyId,omitempty" firestore:"activeFamilyId,omitempty"`
	LastLoginAt    time.Time `json:"lastLoginAt" firestore:"lastLoginAt"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt      time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
