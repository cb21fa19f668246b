package db

import (
	"context"
	"fmt"
	"time"

	"clubhub-backend-go/internal/models"
)

type auditRepository struct {
	store Store
}

// NewAuditRepository creates an AuditRepository writing to
// clubs/{clubId}/auditLogs.
func NewAuditRepository(store Store) AuditRepository {
	return &auditRepository{store: store}
}

// Create appends an entry to the club's audit trail; the timestamp is
// stamped by the store.
func (r *auditRepository) Create(ctx context.Context, clubID string, logEntry models.AuditLog) error {
	if err := checkID("clubId", clubID); err != nil {
		return err
	}
	logEntry.ID = r.store.NewID()
	logEntry.ClubID = clubID
	logEntry.Timestamp = time.Time{}
	if err := r.store.Create(ctx, clubDoc(clubID, auditLogsCollection, logEntry.ID), &logEntry); err != nil {
		return fmt.Errorf("failed to create audit log in club '%s': %w", clubID, err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, clubID string, opts ListOptions) ([]*models.AuditLog, error) {
	return listInto[models.AuditLog](ctx, r.store, clubID, auditLogsCollection, opts)
}
