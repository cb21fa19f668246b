package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

// ClubDefaults are the settings values used when a new club does not
// provide its own.
type ClubDefaults struct {
	Currency string
	Timezone string
}

// clubService implements the ClubService interface.
type clubService struct {
	clubRepo db.ClubRepository
	userRepo db.UserRepository
	guard    clubGuard
	auditor  auditor
	defaults ClubDefaults
	logger   *zap.Logger
}

// NewClubService creates a new ClubService instance.
func NewClubService(
	cr db.ClubRepository,
	mr db.MemberRepository,
	ur db.UserRepository,
	as AuditService,
	defaults ClubDefaults,
	logger *zap.Logger,
) ClubService {
	return &clubService{
		clubRepo: cr,
		userRepo: ur,
		guard:    clubGuard{clubs: cr, members: mr},
		auditor:  auditor{audit: as, logger: logger},
		defaults: defaults,
		logger:   logger,
	}
}

// CreateClub creates a club owned by userID. The slug is derived from the
// name. Settings start from the defaults, then the configured currency and
// timezone, then whatever the request overrides.
func (s *clubService) CreateClub(ctx context.Context, userID string, req models.CreateClubRequest) (*models.Club, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	settings := models.DefaultClubSettings()
	if s.defaults.Currency != "" {
		settings.Currency = s.defaults.Currency
	}
	if s.defaults.Timezone != "" {
		settings.Timezone = s.defaults.Timezone
	}
	if req.Settings != nil {
		req.Settings.ApplyTo(&settings)
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	club := &models.Club{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		LogoURL:     req.LogoURL,
		BannerURL:   req.BannerURL,
		Address:     req.Address,
		City:        req.City,
		Region:      req.Region,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		SocialMedia: req.SocialMedia,
		OwnerID:     userID,
		IsActive:    isActive,
		Settings:    settings,
	}
	clubID, err := s.clubRepo.Create(ctx, club)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.AddClub(ctx, userID, clubID); err != nil {
		s.logger.Warn("Failed to add club to owner profile",
			zap.String("user_id", userID), zap.String("club_id", clubID), zap.Error(err))
	}
	s.auditor.record(ctx, userID, clubID, models.AuditClubCreate, "CLUB", clubID, map[string]string{
		"name": club.Name,
		"slug": club.Slug,
	})

	created, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil || created == nil {
		return club, nil
	}
	return created, nil
}

func (s *clubService) GetClub(ctx context.Context, userID, clubID string) (*models.Club, error) {
	return s.guard.authorize(ctx, userID, clubID, accessRead)
}

func (s *clubService) GetPortal(ctx context.Context, slug string) (*models.ClubPortal, error) {
	club, err := s.clubRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if club == nil || !club.IsActive {
		return nil, fmt.Errorf("%w: no club with slug '%s'", ErrClubNotFound, slug)
	}
	return club.Portal(), nil
}

func (s *clubService) ListOwnedClubs(ctx context.Context, userID string) ([]*models.Club, error) {
	return s.clubRepo.ListByOwner(ctx, userID)
}

func (s *clubService) ListMemberClubs(ctx context.Context, userID string) ([]*models.Club, error) {
	return s.clubRepo.ListForUser(ctx, userID)
}

func (s *clubService) UpdateClub(ctx context.Context, userID, clubID string, patch models.ClubPatch) (*models.Club, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessWrite); err != nil {
		return nil, err
	}
	changes := patch.Updates()
	if len(changes) > 0 {
		if err := s.clubRepo.Update(ctx, clubID, patch); err != nil {
			return nil, notFoundAs(err, ErrClubNotFound, "club with ID '%s'", clubID)
		}
		fields := make(map[string]string, len(changes))
		for _, c := range changes {
			fields[c.Path] = "updated"
		}
		s.auditor.record(ctx, userID, clubID, models.AuditClubUpdate, "CLUB", clubID, fields)
	}
	return s.guard.authorize(ctx, userID, clubID, accessRead)
}

// DeleteClub removes the club and everything under it. Only the owner may
// delete a club.
func (s *clubService) DeleteClub(ctx context.Context, userID, clubID string) error {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessOwner); err != nil {
		return err
	}
	if err := s.clubRepo.Delete(ctx, clubID); err != nil {
		return notFoundAs(err, ErrClubNotFound, "club with ID '%s'", clubID)
	}
	if err := s.userRepo.RemoveClub(ctx, userID, clubID); err != nil {
		s.logger.Warn("Failed to remove club from owner profile",
			zap.String("user_id", userID), zap.String("club_id", clubID), zap.Error(err))
	}
	s.logger.Info("Club deleted", zap.String("club_id", clubID), zap.String("user_id", userID))
	return nil
}

// ReconcileMemberCount recounts the club's members and corrects the stored
// counter if it drifted.
func (s *clubService) ReconcileMemberCount(ctx context.Context, userID, clubID string) (models.CountReconciliation, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessWrite); err != nil {
		return models.CountReconciliation{}, err
	}
	rec, err := s.clubRepo.RecountMembers(ctx, clubID)
	if err != nil {
		return models.CountReconciliation{}, notFoundAs(err, ErrClubNotFound, "club with ID '%s'", clubID)
	}
	if rec.Drifted() {
		s.auditor.record(ctx, userID, clubID, models.AuditCountReconcile, "CLUB", clubID, map[string]string{
			"before": fmt.Sprint(rec.Before),
			"after":  fmt.Sprint(rec.After),
		})
	}
	return rec, nil
}
