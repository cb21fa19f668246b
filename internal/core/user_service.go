package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"clubhub-backend-go/internal/crypto"
	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
	cipher   *crypto.FieldCipher
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, cipher *crypto.FieldCipher, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, cipher: cipher, logger: logger}
}

// GetProfile retrieves the user's profile document.
// maxRUTLength bounds a formatted RUT such as "12.345.678-5".
const maxRUTLength = 16

// checkRUT bounds a plaintext RUT. Sealed values are longer, so the check
// runs before sealing.
func checkRUT(rut *string) error {
	if rut != nil && len(*rut) > maxRUTLength {
		return models.NewValidationError("rut", fmt.Sprintf("must be at most %d", maxRUTLength))
	}
	return nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
	}
	rut, err := s.cipher.OpenPtr(user.RUT)
	if err != nil {
		s.logger.Error("Failed to open user RUT", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to open RUT of user '%s': %w", userID, err)
	}
	user.RUT = rut
	return user, nil
}

// UpdateProfile validates the patch on its plaintext values, then seals the
// RUT before it is written.
func (s *userService) UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	if err := models.Validate(patch); err != nil {
		return nil, err
	}
	if err := checkRUT(patch.RUT); err != nil {
		return nil, err
	}
	rut, err := s.cipher.SealPtr(patch.RUT)
	if err != nil {
		return nil, fmt.Errorf("failed to seal user RUT: %w", err)
	}
	patch.RUT = rut
	if err := s.userRepo.Update(ctx, userID, patch); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound, "user with ID '%s'", userID)
	}
	return s.GetProfile(ctx, userID)
}
