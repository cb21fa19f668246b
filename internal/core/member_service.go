package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"clubhub-backend-go/internal/crypto"
	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

// memberService implements the MemberService interface. RUTs are sealed
// before they reach the store and opened on the way out.
type memberService struct {
	memberRepo db.MemberRepository
	guard      clubGuard
	cipher     *crypto.FieldCipher
	auditor    auditor
	logger     *zap.Logger
}

// NewMemberService creates a new MemberService instance. A nil cipher stores
// RUTs in the clear.
func NewMemberService(
	cr db.ClubRepository,
	mr db.MemberRepository,
	cipher *crypto.FieldCipher,
	as AuditService,
	logger *zap.Logger,
) MemberService {
	return &memberService{
		memberRepo: mr,
		guard:      clubGuard{clubs: cr, members: mr},
		cipher:     cipher,
		auditor:    auditor{audit: as, logger: logger},
		logger:     logger,
	}
}

func (s *memberService) AddMember(ctx context.Context, userID, clubID string, member models.Member) (*models.Member, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessWrite); err != nil {
		return nil, err
	}
	if err := checkRUT(member.RUT); err != nil {
		return nil, err
	}
	rut, err := s.cipher.SealPtr(member.RUT)
	if err != nil {
		return nil, fmt.Errorf("failed to seal member RUT: %w", err)
	}
	member.RUT = rut

	memberID, err := s.memberRepo.Add(ctx, clubID, &member)
	if err != nil {
		return nil, notFoundAs(err, ErrClubNotFound, "club with ID '%s'", clubID)
	}
	s.auditor.record(ctx, userID, clubID, models.AuditMemberAdd, "MEMBER", memberID, map[string]string{
		"name": member.FullName(),
		"role": string(member.Role),
	})
	return s.load(ctx, clubID, memberID)
}

func (s *memberService) GetMember(ctx context.Context, userID, clubID, memberID string) (*models.Member, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessRead); err != nil {
		return nil, err
	}
	return s.load(ctx, clubID, memberID)
}

func (s *memberService) ListMembers(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.Member, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessRead); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.List(ctx, clubID, opts)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if err := s.open(m); err != nil {
			return nil, err
		}
	}
	return members, nil
}

func (s *memberService) UpdateMember(ctx context.Context, userID, clubID, memberID string, patch models.MemberPatch) (*models.Member, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessWrite); err != nil {
		return nil, err
	}
	if err := checkRUT(patch.RUT); err != nil {
		return nil, err
	}
	rut, err := s.cipher.SealPtr(patch.RUT)
	if err != nil {
		return nil, fmt.Errorf("failed to seal member RUT: %w", err)
	}
	patch.RUT = rut

	if err := s.memberRepo.Update(ctx, clubID, memberID, patch); err != nil {
		return nil, notFoundAs(err, ErrMemberNotFound, "member with ID '%s'", memberID)
	}
	details := make(map[string]string)
	for _, c := range patch.Updates() {
		details[c.Path] = "updated"
	}
	if patch.UserID != nil {
		details["userId"] = "relinked"
	}
	s.auditor.record(ctx, userID, clubID, models.AuditMemberUpdate, "MEMBER", memberID, details)
	return s.load(ctx, clubID, memberID)
}

func (s *memberService) DeleteMember(ctx context.Context, userID, clubID, memberID string) error {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessWrite); err != nil {
		return err
	}
	if err := s.memberRepo.Delete(ctx, clubID, memberID); err != nil {
		return notFoundAs(err, ErrMemberNotFound, "member with ID '%s'", memberID)
	}
	s.auditor.record(ctx, userID, clubID, models.AuditMemberDelete, "MEMBER", memberID, nil)
	return nil
}

func (s *memberService) load(ctx context.Context, clubID, memberID string) (*models.Member, error) {
	m, err := memberOf(ctx, s.memberRepo, clubID, memberID)
	if err != nil {
		return nil, err
	}
	if err := s.open(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *memberService) open(m *models.Member) error {
	rut, err := s.cipher.OpenPtr(m.RUT)
	if err != nil {
		s.logger.Error("Failed to open member RUT", zap.String("member_id", m.ID), zap.Error(err))
		return fmt.Errorf("failed to open RUT of member '%s': %w", m.ID, err)
	}
	m.RUT = rut
	return nil
}
