package core

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

const memberFetchConcurrency = 8

// paymentService implements the PaymentService interface.
type paymentService struct {
	paymentRepo db.PaymentRepository
	memberRepo  db.MemberRepository
	guard       clubGuard
	auditor     auditor
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService instance.
func NewPaymentService(
	cr db.ClubRepository,
	mr db.MemberRepository,
	pr db.PaymentRepository,
	as AuditService,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: pr,
		memberRepo:  mr,
		guard:       clubGuard{clubs: cr, members: mr},
		auditor:     auditor{audit: as, logger: logger},
		logger:      logger,
	}
}

// CreatePayment charges one member. The member's name is copied onto the
// payment and the club currency is used when none is given.
func (s *paymentService) CreatePayment(ctx context.Context, userID, clubID string, req models.CreatePaymentRequest) (*models.Payment, error) {
	club, err := s.guard.authorize(ctx, userID, clubID, accessWrite)
	if err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	member, err := memberOf(ctx, s.memberRepo, clubID, req.MemberID)
	if err != nil {
		return nil, err
	}
	tmpl := withClubCurrency(req.PaymentTemplate, club)
	payment := tmpl.ForMember(clubID, member)

	paymentID, err := s.paymentRepo.Create(ctx, clubID, payment)
	if err != nil {
		return nil, err
	}
	s.auditor.record(ctx, userID, clubID, models.AuditPaymentCreate, "PAYMENT", paymentID, map[string]string{
		"member_id": member.ID,
		"amount":    strconv.FormatInt(payment.Amount, 10),
		"concept":   payment.Concept,
	})
	return s.load(ctx, clubID, paymentID)
}

func (s *paymentService) CreateBulkPayments(ctx context.Context, userID, clubID string, req models.BulkPaymentRequest) ([]string, error) {
	club, err := s.guard.authorize(ctx, userID, clubID, accessWrite)
	if err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var members []*models.Member
	if len(req.MemberIDs) == 0 {
		members, err = s.memberRepo.List(ctx, clubID, db.ListOptions{
			Where: []db.Filter{{Field: "isActive", Op: "==", Value: true}},
			Limit: db.MaxBulkPayments + 1,
		})
	} else {
		members, err = s.fetchMembers(ctx, clubID, req.MemberIDs)
	}
	if err != nil {
		return nil, err
	}

	ids, err := s.paymentRepo.CreateBulk(ctx, clubID, members, withClubCurrency(req.PaymentTemplate, club))
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		s.auditor.record(ctx, userID, clubID, models.AuditPaymentBulkCreate, "PAYMENT", "", map[string]string{
			"count":   strconv.Itoa(len(ids)),
			"amount":  strconv.FormatInt(req.Amount, 10),
			"concept": req.Concept,
		})
	}
	s.logger.Info("Bulk payments created",
		zap.String("club_id", clubID), zap.Int("count", len(ids)), zap.String("concept", req.Concept))
	return ids, nil
}

// fetchMembers reads the listed members concurrently, dropping duplicate
// IDs and keeping the order of first appearance.
func (s *paymentService) fetchMembers(ctx context.Context, clubID string, memberIDs []string) ([]*models.Member, error) {
	seen := make(map[string]bool, len(memberIDs))
	unique := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) > db.MaxBulkPayments {
		return nil, fmt.Errorf("%w: %d members (max %d)", db.ErrBatchTooLarge, len(unique), db.MaxBulkPayments)
	}

	members := make([]*models.Member, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(memberFetchConcurrency)
	for i, id := range unique {
		g.Go(func() error {
			m, err := memberOf(gctx, s.memberRepo, clubID, id)
			if err != nil {
				return err
			}
			members[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *paymentService) ListPayments(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.Payment, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessRead); err != nil {
		return nil, err
	}
	return s.paymentRepo.List(ctx, clubID, opts)
}

// UpdatePayment merges the patch. Marking a payment paid without a date
// stamps paidAt with the write time, unless it was already set.
func (s *paymentService) UpdatePayment(ctx context.Context, userID, clubID, paymentID string, patch models.PaymentPatch) (*models.Payment, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessWrite); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Update(ctx, clubID, paymentID, patch); err != nil {
		return nil, notFoundAs(err, ErrPaymentNotFound, "payment with ID '%s'", paymentID)
	}
	details := make(map[string]string)
	if patch.Status != nil {
		details["status"] = string(*patch.Status)
	}
	s.auditor.record(ctx, userID, clubID, models.AuditPaymentUpdate, "PAYMENT", paymentID, details)
	return s.load(ctx, clubID, paymentID)
}

func (s *paymentService) load(ctx context.Context, clubID, paymentID string) (*models.Payment, error) {
	p, err := s.paymentRepo.Get(ctx, clubID, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: payment with ID '%s'", ErrPaymentNotFound, paymentID)
	}
	return p, nil
}

func withClubCurrency(tmpl models.PaymentTemplate, club *models.Club) models.PaymentTemplate {
	if tmpl.Currency == "" {
		tmpl.Currency = club.Settings.Currency
	}
	return tmpl
}
