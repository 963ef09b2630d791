package core

import (
	"context"
	"fmt"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/db"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// activityService implements the ActivityService interface.
type activityService struct {
	activityRepo db.ActivityRepository
}

// NewActivityService creates a new ActivityService instance.
func NewActivityService(activityRepo db.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

// Record stores a family activity entry. Callers treat failures as
// non-fatal; the feed is informational and never blocks the mutation
// that produced it.
func (s *activityService) Record(ctx context.Context, entry models.Activity) error {
	if s.activityRepo == nil {
		return fmt.Errorf("ActivityRepository not initialized in ActivityService")
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record activity via repository: %w", err)
	}
	return nil
}

// RecentForFamily returns the newest activity entries for a family.
func (s *activityService) RecentForFamily(ctx context.Context, familyID string, limit int) ([]*models.Activity, error) {
	if s.activityRepo == nil {
		return nil, fmt.Errorf("ActivityRepository not initialized in ActivityService")
	}
	entries, err := s.activityRepo.GetRecentByFamily(ctx, familyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity for family '%s': %w", familyID, err)
	}
	return entries, nil
}
