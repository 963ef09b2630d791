package core

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

func newFamilyServiceForTest() (FamilyService, *fakeFamilyRepo, *fakeUserRepo, *fakeActivityRepo) {
	familyRepo := newFakeFamilyRepo()
	userRepo := newFakeUserRepo()
	activityRepo := newFakeActivityRepo()
	svc := NewFamilyService(familyRepo, userRepo, NewActivityService(activityRepo))
	return svc, familyRepo, userRepo, activityRepo
}

func seedUser(t *testing.T, userRepo *fakeUserRepo, userID string) {
	t.Helper()
	require.NoError(t, userRepo.Create(context.Background(), &models.User{
		ID:       userID,
		Name:     userID,
		Email:    userID + "@example.com",
		Families: []string{},
	}))
}

func TestCreateFamily_CreatorIsAdminAndSoleMember(t *testing.T) {
	svc, _, userRepo, _ := newFamilyServiceForTest()
	ctx := context.Background()
	seedUser(t, userRepo, "alice")

	family, err := svc.CreateFamily(ctx, "alice", models.CreateFamilyRequest{Name: "Casa"})
	require.NoError(t, err)

	assert.NotEmpty(t, family.ID)
	assert.Equal(t, "alice", family.AdminID)
	assert.Equal(t, []string{"alice"}, family.Members)
	assert.Len(t, family.InviteCode, 8)
	assert.Equal(t, 1, family.Stats.MembersCount)

	// The family id is attached to the creator's profile.
	user, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Contains(t, user.Families, family.ID)
	assert.Equal(t, family.ID, user.ActiveFamilyID)
}

func TestCreateFamily_RejectsEmptyName(t *testing.T) {
	svc, _, userRepo, _ := newFamilyServiceForTest()
	seedUser(t, userRepo, "alice")

	_, err := svc.CreateFamily(context.Background(), "alice", models.CreateFamilyRequest{Name: "  "})
	assert.Error(t, err)
}

func TestJoinByCode_CaseInsensitiveMatch(t *testing.T) {
	svc, _, userRepo, _ := newFamilyServiceForTest()
	ctx := context.Background()
	seedUser(t, userRepo, "alice")
	seedUser(t, userRepo, "bob")

	family, err := svc.CreateFamily(ctx, "alice", models.CreateFamilyRequest{Name: "Casa"})
	require.NoError(t, err)

	joined, err := svc.JoinByCode(ctx, "bob", "  "+strings.ToLower(family.InviteCode)+" ")
	require.NoError(t, err)

	assert.Equal(t, family.ID, joined.ID)
	assert.Contains(t, joined.Members, "bob")
	assert.Equal(t, 2, joined.Stats.MembersCount)

	user, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Contains(t, user.Families, family.ID)
}

func TestJoinByCode_InvalidCode(t *testing.T) {
	svc, _, userRepo, _ := newFamilyServiceForTest()
	seedUser(t, userRepo, "bob")

	_, err := svc.JoinByCode(context.Background(), "bob", "NOPE1234")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)

	_, err = svc.JoinByCode(context.Background(), "bob", "   ")
	assert.ErrorIs(t, err, ErrInvalidInviteCode)
}

func TestJoinByCode_AlreadyMember(t *testing.T) {
	svc, _, userRepo, _ := newFamilyServiceForTest()
	ctx := context.Background()
	seedUser(t, userRepo, "alice")

	family, err := svc.CreateFamily(ctx, "alice", models.CreateFamilyRequest{Name: "Casa"})
	require.NoError(t, err)

	_, err = svc.JoinByCode(ctx, "alice", family.InviteCode)
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestGetFamilyByID_MembersOnly(t *testing.T) {
	svc, _, userRepo, _ := newFamilyServiceForTest()
	ctx := context.Background()
	seedUser(t, userRepo, "alice")

	family, err := svc.CreateFamily(ctx, "alice", models.CreateFamilyRequest{Name: "Casa"})
	require.NoError(t, err)

	got, err := svc.GetFamilyByID(ctx, "alice", family.ID)
	require.NoError(t, err)
	assert.Equal(t, family.ID, got.ID)

	_, err = svc.GetFamilyByID(ctx, "mallory", family.ID)
	assert.ErrorIs(t, err, ErrForbiddenAccess)

	_, err = svc.GetFamilyByID(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ErrFamilyNotFound)
}

func TestListFamilies_SkipsDanglingIDs(t *testing.T) {
	svc, _, userRepo, _ := newFamilyServiceForTest()
	ctx := context.Background()
	seedUser(t, userRepo, "alice")

	family, err := svc.CreateFamily(ctx, "alice", models.CreateFamilyRequest{Name: "Casa"})
	require.NoError(t, err)

	// Simulate a stale reference on the profile.
	require.NoError(t, userRepo.AttachFamily(ctx, "alice", "deleted-family"))

	families, err := svc.ListFamilies(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, family.ID, families[0].ID)
}

func TestGetActivity_RecordsCreateAndJoin(t *testing.T) {
	svc, _, userRepo, _ := newFamilyServiceForTest()
	ctx := context.Background()
	seedUser(t, userRepo, "alice")
	seedUser(t, userRepo, "bob")

	family, err := svc.CreateFamily(ctx, "alice", models.CreateFamilyRequest{Name: "Casa"})
	require.NoError(t, err)
	_, err = svc.JoinByCode(ctx, "bob", family.InviteCode)
	require.NoError(t, err)

	entries, err := svc.GetActivity(ctx, "alice", family.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, "FAMILY_JOIN", entries[0].Action)
	assert.Equal(t, "FAMILY_CREATE", entries[1].Action)

	_, err = svc.GetActivity(ctx, "mallory", family.ID, 10)
	assert.ErrorIs(t, err, ErrForbiddenAccess)
}
