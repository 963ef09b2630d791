package models

import "time"

// Activity records a family-scoped event for the activity feed,
// e.g. "FAMILY_JOIN", "PURCHASE_REGISTER", "ITEM_ADD".
type Activity struct {
	ID         string                 `json:"id" firestore:"-"`
	FamilyID   string                 `json:"familyId" firestore:"familyId"`
	UserID     string                 `json:"userId" firestore:"userId"`
	Action     string                 `json:"action" firestore:"action"`
	TargetType string                 `json:"targetType,omitempty" firestore:"targetType,omitempty"`
	TargetID   string                 `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
	Timestamp  time.Time              `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}
