package db

import (
	"context"
	"fmt"
	"time"

	"clubhub-backend-go/internal/models"
)

type invoiceRepository struct {
	store Store
}

// NewInvoiceRepository creates an InvoiceRepository.
func NewInvoiceRepository(store Store) InvoiceRepository {
	return &invoiceRepository{store: store}
}

// Create recomputes the invoice totals, defaults the status to draft and
// stores the invoice; issuedAt is stamped by the store.
func (r *invoiceRepository) Create(ctx context.Context, clubID string, invoice *models.Invoice) (string, error) {
	if err := checkID("clubId", clubID); err != nil {
		return "", err
	}
	if invoice == nil {
		return "", models.NewValidationError("invoice", "is required")
	}
	invoice.ID = r.store.NewID()
	invoice.ClubID = clubID
	invoice.IssuedAt = time.Time{}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceDraft
	}
	invoice.ComputeTotals()
	if err := models.Validate(invoice); err != nil {
		return "", err
	}
	if err := r.store.Create(ctx, clubDoc(clubID, invoicesCollection, invoice.ID), invoice); err != nil {
		return "", fmt.Errorf("failed to create invoice in club '%s': %w", clubID, err)
	}
	return invoice.ID, nil
}

func (r *invoiceRepository) Get(ctx context.Context, clubID, invoiceID string) (*models.Invoice, error) {
	if err := checkID("clubId", clubID); err != nil {
		return nil, err
	}
	if err := checkID("invoiceId", invoiceID); err != nil {
		return nil, err
	}
	var invoice models.Invoice
	found, err := r.store.Get(ctx, clubDoc(clubID, invoicesCollection, invoiceID), &invoice)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice '%s' of club '%s': %w", invoiceID, clubID, err)
	}
	if !found {
		return nil, nil
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, clubID string, opts ListOptions) ([]*models.Invoice, error) {
	return listInto[models.Invoice](ctx, r.store, clubID, invoicesCollection, opts)
}
