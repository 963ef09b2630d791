package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate_FirstSignInCreatesProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo)
	ctx := context.Background()

	user, created, err := svc.GetOrCreate(ctx, "uid-1", "alice@example.com", "Alice", "https://example.com/a.png")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "uid-1", user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.NotNil(t, user.Families)
	assert.Empty(t, user.Families)

	// Second call finds the existing profile.
	again, created, err := svc.GetOrCreate(ctx, "uid-1", "alice@example.com", "Alice", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
}

func TestGetOrCreate_EmailFallsBackAsName(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	user, created, err := svc.GetOrCreate(context.Background(), "uid-2", "bob@example.com", "", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "bob@example.com", user.Name)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
