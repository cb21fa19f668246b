package db

import (
	"context"
	"fmt"
	"time"

	"clubhub-backend-go/internal/models"
)

// MaxBulkPayments is the largest batch CreateBulk commits; Firestore caps a
// transaction at 500 writes.
const MaxBulkPayments = 450

// paymentRepository implements PaymentRepository on a Store.
type paymentRepository struct {
	store Store
}

// NewPaymentRepository creates a PaymentRepository.
func NewPaymentRepository(store Store) PaymentRepository {
	return &paymentRepository{store: store}
}

func paymentPath(clubID, paymentID string) string {
	return clubDoc(clubID, paymentsCollection, paymentID)
}

// Create stores a single payment; createdAt/updatedAt are stamped by the store.
func (r *paymentRepository) Create(ctx context.Context, clubID string, payment *models.Payment) (string, error) {
	if err := checkID("clubId", clubID); err != nil {
		return "", err
	}
	if payment == nil {
		return "", models.NewValidationError("payment", "is required")
	}
	payment.ID = r.store.NewID()
	payment.ClubID = clubID
	payment.CreatedAt, payment.UpdatedAt = time.Time{}, time.Time{}
	if err := models.Validate(payment); err != nil {
		return "", err
	}
	if err := r.store.Create(ctx, paymentPath(clubID, payment.ID), payment); err != nil {
		return "", fmt.Errorf("failed to create payment in club '%s': %w", clubID, err)
	}
	return payment.ID, nil
}

// CreateBulk builds one payment per member from tmpl, each with its own ID,
// memberId and memberName, and commits them in a single transaction: either
// every payment is written or none is. An empty member list is a no-op.
func (r *paymentRepository) CreateBulk(ctx context.Context, clubID string, members []*models.Member, tmpl models.PaymentTemplate) ([]string, error) {
	if err := checkID("clubId", clubID); err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []string{}, nil
	}
	if len(members) > MaxBulkPayments {
		return nil, fmt.Errorf("%w: %d payments (max %d)", ErrBatchTooLarge, len(members), MaxBulkPayments)
	}
	if err := models.Validate(tmpl); err != nil {
		return nil, err
	}

	payments := make([]*models.Payment, 0, len(members))
	for i, m := range members {
		if m == nil || m.ID == "" {
			return nil, models.NewValidationError(fmt.Sprintf("members[%d]", i), "has no ID")
		}
		p := tmpl.ForMember(clubID, m)
		p.ID = r.store.NewID()
		if err := models.Validate(p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	err := r.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		for _, p := range payments {
			if err := tx.Create(paymentPath(clubID, p.ID), p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %d payments in club '%s': %w", len(payments), clubID, err)
	}

	ids := make([]string, len(payments))
	for i, p := range payments {
		ids[i] = p.ID
	}
	return ids, nil
}

// Get returns the payment, or nil if it does not exist.
func (r *paymentRepository) Get(ctx context.Context, clubID, paymentID string) (*models.Payment, error) {
	if err := checkID("clubId", clubID); err != nil {
		return nil, err
	}
	if err := checkID("paymentId", paymentID); err != nil {
		return nil, err
	}
	var payment models.Payment
	found, err := r.store.Get(ctx, paymentPath(clubID, paymentID), &payment)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment '%s' of club '%s': %w", paymentID, clubID, err)
	}
	if !found {
		return nil, nil
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, clubID string, opts ListOptions) ([]*models.Payment, error) {
	return listInto[models.Payment](ctx, r.store, clubID, paymentsCollection, opts)
}

// Update merges the patch and always re-stamps updatedAt. Marking a payment
// paid without a paidAt stamps paidAt with the commit time, unless the stored
// payment already carries one; that check and the write share a transaction.
func (r *paymentRepository) Update(ctx context.Context, clubID, paymentID string, patch models.PaymentPatch) error {
	if err := checkID("clubId", clubID); err != nil {
		return err
	}
	if err := checkID("paymentId", paymentID); err != nil {
		return err
	}
	if err := models.Validate(patch); err != nil {
		return err
	}
	path := paymentPath(clubID, paymentID)
	updates := append(toUpdates(patch.Updates()), Update{Path: "updatedAt", Value: ServerTimestamp})

	var err error
	if patch.MarksPaidWithoutDate() {
		err = r.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
			var current models.Payment
			found, err := tx.Get(path, &current)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("update %s: %w", path, ErrNotFound)
			}
			writes := updates[:len(updates):len(updates)]
			if current.PaidAt == nil {
				writes = append(writes, Update{Path: "paidAt", Value: ServerTimestamp})
			}
			return tx.Update(path, writes)
		})
	} else {
		err = r.store.Update(ctx, path, updates)
	}
	if err != nil {
		return fmt.Errorf("failed to update payment '%s' of club '%s': %w", paymentID, clubID, err)
	}
	return nil
}
