package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/db"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// Custom errors for the FamilyService.
var (
	ErrFamilyNotFound    = errors.New("family not found")
	ErrForbiddenAccess   = errors.New("user does not have permission for this action")
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrAlreadyMember     = errors.New("user is already a member of this family")
)

// familyService implements the FamilyService interface.
type familyService struct {
	familyRepo      db.FamilyRepository
	userRepo        db.UserRepository
	activityService ActivityService
}

// NewFamilyService creates a new FamilyService instance.
func NewFamilyService(fr db.FamilyRepository, ur db.UserRepository, as ActivityService) FamilyService {
	return &familyService{
		familyRepo:      fr,
		userRepo:        ur,
		activityService: as,
	}
}

// CreateFamily creates a family with the creator as admin and sole member,
// generates the invite code, and attaches the family to the creator's
// profile. The profile update is a second, independent write; a failure
// there leaves the family without a back-reference (reference semantics,
// no rollback).
func (s *familyService) CreateFamily(ctx context.Context, userID string, req models.CreateFamilyRequest) (*models.Family, error) {
	if s.familyRepo == nil || s.userRepo == nil {
		return nil, errors.New("familyService: component not initialized")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("family name cannot be empty")
	}

	newFamily := &models.Family{
		Name:       name,
		Members:    []string{userID},
		AdminID:    userID,
		InviteCode: generateInviteCode(),
		Stats: models.FamilyStats{
			MembersCount: 1,
		},
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	familyID, err := s.familyRepo.Create(ctx, newFamily)
	if err != nil {
		return nil, fmt.Errorf("failed to create family in repository: %w", err)
	}
	newFamily.ID = familyID

	if err := s.userRepo.AttachFamily(ctx, userID, familyID); err != nil {
		fmt.Printf("Warning: family '%s' created but attaching to user '%s' failed: %v\n", familyID, userID, err)
	}

	s.record(ctx, models.Activity{
		FamilyID:   familyID,
		UserID:     userID,
		Action:     "FAMILY_CREATE",
		TargetType: "FAMILY",
		TargetID:   familyID,
		Details:    map[string]interface{}{"name": newFamily.Name},
	})

	return newFamily, nil
}

// GetFamilyByID retrieves a family; only members may read it.
func (s *familyService) GetFamilyByID(ctx context.Context, userID, familyID string) (*models.Family, error) {
	if s.familyRepo == nil {
		return nil, errors.New("familyService: familyRepo not initialized")
	}

	family, err := s.familyRepo.GetByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrFamilyNotFound, familyID)
		}
		return nil, fmt.Errorf("failed to get family '%s' from repository: %w", familyID, err)
	}

	if !family.HasMember(userID) {
		return nil, fmt.Errorf("%w: user '%s' is not a member of family '%s'", ErrForbiddenAccess, userID, familyID)
	}

	return family, nil
}

// ListFamilies resolves the families the user belongs to from the ids on
// the user profile. Ids pointing at missing documents are skipped, as the
// reference client does.
func (s *familyService) ListFamilies(ctx context.Context, userID string) ([]*models.Family, error) {
	if s.familyRepo == nil || s.userRepo == nil {
		return nil, errors.New("familyService: component not initialized")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s' for family listing: %w", userID, err)
	}

	families := make([]*models.Family, 0, len(user.Families))
	for _, familyID := range user.Families {
		family, err := s.familyRepo.GetByID(ctx, familyID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to get family '%s' for user '%s': %w", familyID, userID, err)
		}
		families = append(families, family)
	}

	return families, nil
}

// JoinByCode adds the user to the family matching the invite code.
// The code is upper-cased before the lookup, making matches
// case-insensitive. Family and user documents are updated sequentially
// with no atomicity between them (reference semantics).
func (s *familyService) JoinByCode(ctx context.Context, userID, inviteCode string) (*models.Family, error) {
	if s.familyRepo == nil || s.userRepo == nil {
		return nil, errors.New("familyService: component not initialized")
	}

	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if code == "" {
		return nil, fmt.Errorf("%w: empty code", ErrInvalidInviteCode)
	}

	family, err := s.familyRepo.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidInviteCode, code)
		}
		return nil, fmt.Errorf("failed to look up invite code '%s': %w", code, err)
	}

	if family.HasMember(userID) {
		return nil, fmt.Errorf("%w: user '%s' in family '%s'", ErrAlreadyMember, userID, family.ID)
	}

	newCount := len(family.Members) + 1
	if err := s.familyRepo.AddMember(ctx, family.ID, userID, newCount); err != nil {
		return nil, fmt.Errorf("failed to add user '%s' to family '%s': %w", userID, family.ID, err)
	}

	if err := s.userRepo.AttachFamily(ctx, userID, family.ID); err != nil {
		// Second write of the pair failed: the family now lists a member
		// whose profile does not reference it. Surfaced, not rolled back.
		fmt.Printf("Warning: user '%s' joined family '%s' but profile update failed: %v\n", userID, family.ID, err)
	}

	family.Members = append(family.Members, userID)
	family.Stats.MembersCount = newCount

	s.record(ctx, models.Activity{
		FamilyID:   family.ID,
		UserID:     userID,
		Action:     "FAMILY_JOIN",
		TargetType: "FAMILY",
		TargetID:   family.ID,
	})

	return family, nil
}

// GetActivity returns recent activity for a family; members only.
func (s *familyService) GetActivity(ctx context.Context, userID, familyID string, limit int) ([]*models.Activity, error) {
	if s.activityService == nil {
		return nil, errors.New("familyService: activityService not initialized")
	}

	if _, err := s.GetFamilyByID(ctx, userID, familyID); err != nil {
		return nil, err
	}
	return s.activityService.RecentForFamily(ctx, familyID, limit)
}

func (s *familyService) record(ctx context.Context, entry models.Activity) {
	if s.activityService == nil {
		return
	}
	entry.Timestamp = time.Now().UTC()
	if err := s.activityService.Record(ctx, entry); err != nil {
		fmt.Printf("Warning: failed to record activity %s (family %s): %v\n", entry.Action, entry.FamilyID, err)
	}
}
