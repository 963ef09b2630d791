package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/db"
	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

// ErrUserNotFound is returned when a user profile does not exist.
var ErrUserNotFound = errors.New("user not found")

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetOrCreate retrieves a user by ID, creating the profile on first
// sign-in from the auth token claims. On revisit only the login
// timestamp is refreshed.
func (s *userService) GetOrCreate(ctx context.Context, userID, email, name, photoURL string) (*models.User, bool, error) {
	if s.userRepo == nil {
		return nil, false, errors.New("UserRepository not initialized in UserService")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			if name == "" {
				name = email
			}
			newUser := &models.User{
				ID:          userID,
				Name:        name,
				Email:       email,
				PhotoURL:    photoURL,
				Families:    []string{},
				LastLoginAt: time.Now().UTC(),
				CreatedAt:   time.Now().UTC(),
				UpdatedAt:   time.Now().UTC(),
			}
			if createErr := s.userRepo.Create(ctx, newUser); createErr != nil {
				return nil, false, fmt.Errorf("failed to create user (id: %s) after not found: %w", userID, createErr)
			}
			return newUser, true, nil
		}
		return nil, false, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}
	if user == nil {
		return nil, false, fmt.Errorf("repository returned (nil, nil) for user ID '%s'", userID)
	}

	user.LastLoginAt = time.Now().UTC()
	if updErr := s.userRepo.Update(ctx, user); updErr != nil {
		// Stale login timestamp is not worth failing the sign-in for.
		fmt.Printf("Warning: failed to update lastLoginAt for user '%s': %v\n", userID, updErr)
	}

	return user, false, nil
}

// GetByID retrieves a user by their ID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("UserRepository not initialized in UserService")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user with ID '%s' (repository returned nil user and nil error)", ErrUserNotFound, userID)
	}
	return user, nil
}
