package core

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

type invoiceService struct {
	invoiceRepo db.InvoiceRepository
	memberRepo  db.MemberRepository
	guard       clubGuard
	auditor     auditor
}

// NewInvoiceService creates a new InvoiceService instance.
func NewInvoiceService(
	cr db.ClubRepository,
	mr db.MemberRepository,
	ir db.InvoiceRepository,
	as AuditService,
	logger *zap.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: ir,
		memberRepo:  mr,
		guard:       clubGuard{clubs: cr, members: mr},
		auditor:     auditor{audit: as, logger: logger},
	}
}

// CreateInvoice issues an invoice to a member; totals are computed from the
// items.
func (s *invoiceService) CreateInvoice(ctx context.Context, userID, clubID string, req models.CreateInvoiceRequest) (*models.Invoice, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessWrite); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	member, err := memberOf(ctx, s.memberRepo, clubID, req.MemberID)
	if err != nil {
		return nil, err
	}
	invoice := &models.Invoice{
		MemberID:   member.ID,
		MemberName: member.FullName(),
		Number:     req.Number,
		Items:      append([]models.InvoiceItem(nil), req.Items...),
		Tax:        req.Tax,
		Status:     req.Status,
		DueDate:    req.DueDate,
		Notes:      req.Notes,
	}
	invoiceID, err := s.invoiceRepo.Create(ctx, clubID, invoice)
	if err != nil {
		return nil, err
	}
	s.auditor.record(ctx, userID, clubID, models.AuditInvoiceCreate, "INVOICE", invoiceID, map[string]string{
		"number": invoice.Number,
		"total":  strconv.FormatInt(invoice.Total, 10),
	})

	stored, err := s.invoiceRepo.Get(ctx, clubID, invoiceID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("invoice '%s' vanished after creation", invoiceID)
	}
	return stored, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.Invoice, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessRead); err != nil {
		return nil, err
	}
	return s.invoiceRepo.List(ctx, clubID, opts)
}
