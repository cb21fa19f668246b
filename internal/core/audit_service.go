package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

// auditService implements the AuditService interface.
type auditService struct {
	auditRepo db.AuditRepository
	guard     clubGuard
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository, clubs db.ClubRepository, members db.MemberRepository) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		guard:     clubGuard{clubs: clubs, members: members},
	}
}

// CreateAuditLog stores logEntry in the trail of logEntry.ClubID.
func (s *auditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if err := s.auditRepo.Create(ctx, logEntry.ClubID, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log via repository: %w", err)
	}
	return nil
}

// ListAuditLogs is restricted to users who may manage the club.
func (s *auditService) ListAuditLogs(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.AuditLog, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessWrite); err != nil {
		return nil, err
	}
	return s.auditRepo.List(ctx, clubID, opts)
}

// auditor records audit entries on behalf of a service. Failures are logged
// and never fail the audited operation.
type auditor struct {
	audit  AuditService
	logger *zap.Logger
}

func (a auditor) record(ctx context.Context, userID, clubID, action, targetType, targetID string, details map[string]string) {
	if a.audit == nil {
		return
	}
	entry := models.AuditLog{
		ClubID:     clubID,
		UserID:     userID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	}
	if err := a.audit.CreateAuditLog(ctx, entry); err != nil {
		a.logger.Warn("Failed to create audit log",
			zap.String("action", action),
			zap.String("club_id", clubID),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
	}
}
