package models

import "time"

// FamilyStats holds the running aggregate counters for a family.
// Counters are additive and updated by the services that touch the
// underlying collections; they are not recomputed on read.
type FamilyStats struct {
	TotalProducts  int     `json:"totalProducts" firestore:"totalProducts"`
	TotalPurchases int     `json:"totalPurchases" firestore:"totalPurchases"`
	TotalSpent     float64 `json:"totalSpent" firestore:"totalSpent"`
	MembersCount   int     `json:"membersCount" firestore:"membersCount"`
}

// Family is a group of users sharing inventory and shopping lists.
type Family struct {
	ID         string      `json:"id" firestore:"-"`
	Name       string      `json:"name" firestore:"name"`
	Members    []string    `json:"members" firestore:"members"`
	AdminID    string      `json:"adminId" firestore:"adminId"`
	InviteCode string      `json:"inviteCode" firestore:"inviteCode"`
	Stats      FamilyStats `json:"stats" firestore:"stats"`
	CreatedBy  string      `json:"createdBy" firestore:"createdBy"`
	CreatedAt  time.Time   `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt  time.Time   `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// HasMember reports whether the given user belongs to the family.
func (f *Family) HasMember(userID string) bool {
	for _, m := range f.Members {
		if m == userID {
			return true
		}
	}
	return false
}
