package db

import (
	"context"
	"fmt"
	"time"

	"clubhub-backend-go/internal/models"
)

// userRepository implements UserRepository on a Store. The document key is
// the identity provider's UID.
type userRepository struct {
	store Store
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(store Store) UserRepository {
	return &userRepository{store: store}
}

// GetByID returns the profile, or nil if none exists for the UID.
func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if err := checkID("uid", userID); err != nil {
		return nil, err
	}
	var user models.User
	found, err := r.store.Get(ctx, userPath(userID), &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// Create writes a new profile. CreatedAt and UpdatedAt are stamped by the
// store. An existing profile yields ErrAlreadyExists.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return models.NewValidationError("user", "is required")
	}
	if err := checkID("uid", user.UID); err != nil {
		return err
	}
	if user.Clubs == nil {
		user.Clubs = []string{}
	}
	user.CreatedAt, user.UpdatedAt = time.Time{}, time.Time{}
	if err := r.store.Create(ctx, userPath(user.UID), user); err != nil {
		return fmt.Errorf("failed to create user '%s': %w", user.UID, err)
	}
	return nil
}

// Update merges the patch into the profile and re-stamps updatedAt.
func (r *userRepository) Update(ctx context.Context, userID string, patch models.UserPatch) error {
	if err := checkID("uid", userID); err != nil {
		return err
	}
	if err := models.Validate(patch); err != nil {
		return err
	}
	updates := append(toUpdates(patch.Updates()), Update{Path: "updatedAt", Value: ServerTimestamp})
	if err := r.store.Update(ctx, userPath(userID), updates); err != nil {
		return fmt.Errorf("failed to update user '%s': %w", userID, err)
	}
	return nil
}

// AddClub adds clubID to the profile's club list if not already present.
func (r *userRepository) AddClub(ctx context.Context, userID, clubID string) error {
	return r.updateClubs(ctx, userID, clubID, ArrayUnion(clubID))
}

// RemoveClub removes clubID from the profile's club list.
func (r *userRepository) RemoveClub(ctx context.Context, userID, clubID string) error {
	return r.updateClubs(ctx, userID, clubID, ArrayRemove(clubID))
}

func (r *userRepository) updateClubs(ctx context.Context, userID, clubID string, transform any) error {
	if err := checkID("uid", userID); err != nil {
		return err
	}
	if err := checkID("clubId", clubID); err != nil {
		return err
	}
	err := r.store.Update(ctx, userPath(userID), []Update{
		{Path: "clubs", Value: transform},
		{Path: "updatedAt", Value: ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to update clubs of user '%s': %w", userID, err)
	}
	return nil
}
