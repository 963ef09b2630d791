package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/db"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// Custom errors for the ListService.
var (
	ErrListNotFound  = errors.New("shopping list not found")
	ErrItemNotFound  = errors.New("item not found in list")
	ErrEmptyItemName = errors.New("item name cannot be empty")
)

// listService implements the ListService interface.
type listService struct {
	listRepo        db.ListRepository
	familyRepo      db.FamilyRepository
	userRepo        db.UserRepository
	activityService ActivityService
}

// NewListService creates a new ListService instance.
func NewListService(lr db.ListRepository, fr db.FamilyRepository, ur db.UserRepository, as ActivityService) ListService {
	return &listService{
		listRepo:        lr,
		familyRepo:      fr,
		userRepo:        ur,
		activityService: as,
	}
}

// newItemID returns a synthetic id from the current Unix-millisecond
// timestamp, bumped past any id already present so two adds within the
// same millisecond stay distinguishable.
func newItemID(items []models.Item) string {
	ms := time.Now().UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		taken := false
		for _, it := range items {
			if it.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
		ms++
	}
}

// CreateList creates a shopping list, empty or seeded with initial items.
// Counters are derived from the item slice, never trusted from input.
func (s *listService) CreateList(ctx context.Context, userID string, req models.CreateListRequest) (*models.ShoppingList, error) {
	if s.listRepo == nil {
		return nil, errors.New("listService: listRepo not initialized")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("list name cannot be empty")
	}

	now := time.Now().UTC()
	items := make([]models.Item, 0, len(req.Items))
	for _, ir := range req.Items {
		itemName := strings.TrimSpace(ir.Name)
		if itemName == "" {
			continue
		}
		items = append(items, models.Item{
			ID:       newItemID(items),
			Name:     itemName,
			Quantity: defaultQuantity(ir.Quantity),
			Unit:     defaultUnit(ir.Unit),
			AddedAt:  now,
		})
	}

	newList := &models.ShoppingList{
		Name:       name,
		OwnerID:    userID,
		FamilyID:   req.FamilyID,
		Status:     models.ListStatusActive,
		Items:      items,
		SharedWith: []string{userID},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	newList.Recount()

	listID, err := s.listRepo.Create(ctx, newList)
	if err != nil {
		return nil, fmt.Errorf("failed to create shopping list in repository: %w", err)
	}
	newList.ID = listID

	if req.FamilyID != "" {
		s.record(ctx, models.Activity{
			FamilyID:   req.FamilyID,
			UserID:     userID,
			Action:     "LIST_CREATE",
			TargetType: "LIST",
			TargetID:   listID,
			Details:    map[string]interface{}{"name": newList.Name},
		})
	}

	return newList, nil
}

// GetListByID retrieves a list if the user is the owner, the list is
// shared with them, or they belong to the family the list is attached to.
func (s *listService) GetListByID(ctx context.Context, userID, listID string) (*models.ShoppingList, error) {
	if s.listRepo == nil {
		return nil, errors.New("listService: listRepo not initialized")
	}

	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrListNotFound, listID)
		}
		return nil, fmt.Errorf("failed to get shopping list '%s': %w", listID, err)
	}

	allowed, err := s.canAccess(ctx, userID, list)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: user '%s' may not access list '%s'", ErrForbiddenAccess, userID, listID)
	}

	return list, nil
}

// canAccess resolves read/edit access: a direct grant (owner or
// sharedWith), or membership of the family a family-attached list
// belongs to.
func (s *listService) canAccess(ctx context.Context, userID string, list *models.ShoppingList) (bool, error) {
	if list.CanRead(userID) {
		return true, nil
	}
	if list.FamilyID == "" || s.familyRepo == nil {
		return false, nil
	}

	family, err := s.familyRepo.GetByID(ctx, list.FamilyID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// Dangling family reference: fall back to direct grants only.
			return false, nil
		}
		return false, fmt.Errorf("failed to get family '%s' for list access check: %w", list.FamilyID, err)
	}
	return family.HasMember(userID), nil
}

// ListLists returns the active lists the user may see, newest first:
// lists they own or were shared on, merged with the lists of every
// family they belong to.
func (s *listService) ListLists(ctx context.Context, userID string) ([]*models.ShoppingList, error) {
	if s.listRepo == nil {
		return nil, errors.New("listService: listRepo not initialized")
	}

	lists, err := s.listRepo.GetActiveForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists for user '%s': %w", userID, err)
	}

	if s.userRepo != nil {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to get user '%s' for family list lookup: %w", userID, err)
		}
		if err == nil {
			seen := make(map[string]bool, len(lists))
			for _, l := range lists {
				seen[l.ID] = true
			}
			for _, familyID := range user.Families {
				famLists, err := s.listRepo.GetActiveByFamily(ctx, familyID)
				if err != nil {
					return nil, fmt.Errorf("failed to list shopping lists for family '%s': %w", familyID, err)
				}
				for _, l := range famLists {
					if !seen[l.ID] {
						seen[l.ID] = true
						lists = append(lists, l)
					}
				}
			}
		}
	}

	sort.SliceStable(lists, func(i, j int) bool {
		return lists[i].CreatedAt.After(lists[j].CreatedAt)
	})

	return lists, nil
}

// DeleteList removes a list; owner only. Embedded items go with it.
func (s *listService) DeleteList(ctx context.Context, userID, listID string) error {
	if s.listRepo == nil {
		return errors.New("listService: listRepo not initialized")
	}

	list, err := s.GetListByID(ctx, userID, listID)
	if err != nil {
		return err
	}
	if list.OwnerID != userID {
		return fmt.Errorf("%w: user '%s' is not the owner of list '%s'", ErrForbiddenAccess, userID, listID)
	}

	if err := s.listRepo.Delete(ctx, listID); err != nil {
		return fmt.Errorf("failed to delete shopping list '%s': %w", listID, err)
	}

	if list.FamilyID != "" {
		s.record(ctx, models.Activity{
			FamilyID:   list.FamilyID,
			UserID:     userID,
			Action:     "LIST_DELETE",
			TargetType: "LIST",
			TargetID:   listID,
			Details:    map[string]interface{}{"name": list.Name},
		})
	}

	return nil
}

// AddItem appends an item to the list. A blank name is rejected before
// any write happens. Counters are recomputed from the item slice.
func (s *listService) AddItem(ctx context.Context, userID, listID string, req models.NewItemRequest) (*models.ShoppingList, error) {
	list, err := s.GetListByID(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyItemName
	}

	now := time.Now().UTC()
	item := models.Item{
		ID:       newItemID(list.Items),
		Name:     name,
		Quantity: defaultQuantity(req.Quantity),
		Unit:     defaultUnit(req.Unit),
		AddedAt:  now,
	}

	list.Items = append(list.Items, item)
	list.Recount()
	list.LastEditedBy = userID
	list.UpdatedAt = now

	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to add item to list '%s': %w", listID, err)
	}

	if list.FamilyID != "" {
		s.record(ctx, models.Activity{
			FamilyID:   list.FamilyID,
			UserID:     userID,
			Action:     "ITEM_ADD",
			TargetType: "LIST",
			TargetID:   listID,
			Details:    map[string]interface{}{"item": item.Name},
		})
	}

	return list, nil
}

// ToggleItem flips an item's completed flag. The item is located by its
// synthetic id; completedBy/completedAt are stamped when completing and
// cleared when reverting. Toggling twice restores the original state.
func (s *listService) ToggleItem(ctx context.Context, userID, listID, itemID string) (*models.ShoppingList, error) {
	list, err := s.GetListByID(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	idx := indexOfItem(list.Items, itemID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: id '%s' in list '%s'", ErrItemNotFound, itemID, listID)
	}

	now := time.Now().UTC()
	item := &list.Items[idx]
	item.Completed = !item.Completed
	if item.Completed {
		item.CompletedBy = userID
		item.CompletedAt = now
	} else {
		item.CompletedBy = ""
		item.CompletedAt = time.Time{}
	}

	list.Recount()
	list.LastEditedBy = userID
	list.UpdatedAt = now

	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to toggle item '%s' in list '%s': %w", itemID, listID, err)
	}

	return list, nil
}

// RemoveItem deletes an item from the list by id and recomputes the
// counters from what remains.
func (s *listService) RemoveItem(ctx context.Context, userID, listID, itemID string) (*models.ShoppingList, error) {
	list, err := s.GetListByID(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	idx := indexOfItem(list.Items, itemID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: id '%s' in list '%s'", ErrItemNotFound, itemID, listID)
	}

	removed := list.Items[idx]
	list.Items = append(list.Items[:idx], list.Items[idx+1:]...)
	list.Recount()
	list.LastEditedBy = userID
	list.UpdatedAt = time.Now().UTC()

	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to remove item '%s' from list '%s': %w", itemID, listID, err)
	}

	if list.FamilyID != "" {
		s.record(ctx, models.Activity{
			FamilyID:   list.FamilyID,
			UserID:     userID,
			Action:     "ITEM_REMOVE",
			TargetType: "LIST",
			TargetID:   listID,
			Details:    map[string]interface{}{"item": removed.Name},
		})
	}

	return list, nil
}

// WatchList streams the list state to fn on every remote change until
// ctx is cancelled. Access is checked once up front; the underlying
// snapshot listener is released when this returns.
func (s *listService) WatchList(ctx context.Context, userID, listID string, fn func(*models.ShoppingList)) error {
	if _, err := s.GetListByID(ctx, userID, listID); err != nil {
		return err
	}
	if err := s.listRepo.Watch(ctx, listID, fn); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: id '%s'", ErrListNotFound, listID)
		}
		return err
	}
	return nil
}

func indexOfItem(items []models.Item, itemID string) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func defaultQuantity(q string) string {
	if strings.TrimSpace(q) == "" {
		return "1"
	}
	return q
}

func defaultUnit(u string) string {
	if u == "" {
		return "un"
	}
	return u
}

func (s *listService) record(ctx context.Context, entry models.Activity) {
	if s.activityService == nil {
		return
	}
	entry.Timestamp = time.Now().UTC()
	if err := s.activityService.Record(ctx, entry); err != nil {
		fmt.Printf("Warning: failed to record activity %s (list %s): %v\n", entry.Action, entry.TargetID, err)
	}
}
