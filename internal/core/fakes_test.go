package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/db"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// In-memory repository fakes used across the service tests. They mimic
// the Firestore-backed implementations closely enough to exercise the
// service logic: auto-generated ids, ErrNotFound on misses, and the
// same ordering guarantees the real queries provide.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return db.ErrNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) AttachFamily(_ context.Context, userID, familyID string) error {
	u, ok := r.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	for _, id := range u.Families {
		if id == familyID {
			u.ActiveFamilyID = familyID
			return nil
		}
	}
	u.Families = append(u.Families, familyID)
	u.ActiveFamilyID = familyID
	return nil
}

type fakeFamilyRepo struct {
	families map[string]*models.Family
	nextID   int
}

func newFakeFamilyRepo() *fakeFamilyRepo {
	return &fakeFamilyRepo{families: make(map[string]*models.Family)}
}

func (r *fakeFamilyRepo) Create(_ context.Context, family *models.Family) (string, error) {
	r.nextID++
	id := fmt.Sprintf("family-%d", r.nextID)
	clone := *family
	clone.ID = id
	r.families[id] = &clone
	return id, nil
}

func (r *fakeFamilyRepo) GetByID(_ context.Context, familyID string) (*models.Family, error) {
	f, ok := r.families[familyID]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *f
	clone.Members = append([]string(nil), f.Members...)
	return &clone, nil
}

func (r *fakeFamilyRepo) GetByInviteCode(_ context.Context, code string) (*models.Family, error) {
	for _, f := range r.families {
		if f.InviteCode == code {
			clone := *f
			clone.Members = append([]string(nil), f.Members...)
			return &clone, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeFamilyRepo) AddMember(_ context.Context, familyID, userID string, membersCount int) error {
	f, ok := r.families[familyID]
	if !ok {
		return db.ErrNotFound
	}
	f.Members = append(f.Members, userID)
	f.Stats.MembersCount = membersCount
	return nil
}

func (r *fakeFamilyRepo) IncrementStats(_ context.Context, familyID string, products, purchases int, spent float64) error {
	f, ok := r.families[familyID]
	if !ok {
		return db.ErrNotFound
	}
	f.Stats.TotalProducts += products
	f.Stats.TotalPurchases += purchases
	f.Stats.TotalSpent += spent
	return nil
}

type fakeProductRepo struct {
	products map[string]*models.Product
	nextID   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*models.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *models.Product) (string, error) {
	r.nextID++
	id := fmt.Sprintf("product-%d", r.nextID)
	clone := *product
	clone.ID = id
	r.products[id] = &clone
	return id, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, productID string) (*models.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) GetByFamilyID(_ context.Context, familyID string) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range r.products {
		if p.FamilyID == familyID {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *models.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return db.ErrNotFound
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, productID string) error {
	if _, ok := r.products[productID]; !ok {
		return db.ErrNotFound
	}
	delete(r.products, productID)
	return nil
}

type fakePurchaseRepo struct {
	purchases []*models.Purchase
	nextID    int
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{}
}

func (r *fakePurchaseRepo) Create(_ context.Context, purchase *models.Purchase) (string, error) {
	r.nextID++
	id := fmt.Sprintf("purchase-%d", r.nextID)
	clone := *purchase
	clone.ID = id
	r.purchases = append(r.purchases, &clone)
	return id, nil
}

func (r *fakePurchaseRepo) GetByFamilyAndRange(_ context.Context, familyID string, start, end time.Time) ([]*models.Purchase, error) {
	var out []*models.Purchase
	for _, p := range r.purchases {
		if p.FamilyID != familyID {
			continue
		}
		if p.PurchaseDate.Before(start) || p.PurchaseDate.After(end) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchaseDate.After(out[j].PurchaseDate) })
	return out, nil
}

type fakeListRepo struct {
	lists  map[string]*models.ShoppingList
	nextID int
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{lists: make(map[string]*models.ShoppingList)}
}

func cloneList(l *models.ShoppingList) *models.ShoppingList {
	clone := *l
	clone.Items = append([]models.Item(nil), l.Items...)
	clone.SharedWith = append([]string(nil), l.SharedWith...)
	return &clone
}

func (r *fakeListRepo) Create(_ context.Context, list *models.ShoppingList) (string, error) {
	r.nextID++
	id := fmt.Sprintf("list-%d", r.nextID)
	clone := cloneList(list)
	clone.ID = id
	r.lists[id] = clone
	return id, nil
}

func (r *fakeListRepo) GetByID(_ context.Context, listID string) (*models.ShoppingList, error) {
	l, ok := r.lists[listID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return cloneList(l), nil
}

func (r *fakeListRepo) GetActiveForUser(_ context.Context, userID string) ([]*models.ShoppingList, error) {
	var out []*models.ShoppingList
	for _, l := range r.lists {
		if l.Status != models.ListStatusActive {
			continue
		}
		for _, id := range l.SharedWith {
			if id == userID {
				out = append(out, cloneList(l))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeListRepo) GetActiveByFamily(_ context.Context, familyID string) ([]*models.ShoppingList, error) {
	var out []*models.ShoppingList
	for _, l := range r.lists {
		if l.FamilyID == familyID && l.Status == models.ListStatusActive {
			out = append(out, cloneList(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeListRepo) Update(_ context.Context, list *models.ShoppingList) error {
	if _, ok := r.lists[list.ID]; !ok {
		return db.ErrNotFound
	}
	r.lists[list.ID] = cloneList(list)
	return nil
}

func (r *fakeListRepo) Delete(_ context.Context, listID string) error {
	if _, ok := r.lists[listID]; !ok {
		return db.ErrNotFound
	}
	delete(r.lists, listID)
	return nil
}

func (r *fakeListRepo) Watch(ctx context.Context, listID string, fn func(*models.ShoppingList)) error {
	l, ok := r.lists[listID]
	if !ok {
		return db.ErrNotFound
	}
	fn(cloneList(l))
	<-ctx.Done()
	return nil
}

type fakeActivityRepo struct {
	entries []models.Activity
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{}
}

func (r *fakeActivityRepo) Create(_ context.Context, entry models.Activity) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeActivityRepo) GetRecentByFamily(_ context.Context, familyID string, limit int) ([]*models.Activity, error) {
	var out []*models.Activity
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].FamilyID == familyID {
			clone := r.entries[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}
