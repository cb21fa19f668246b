package db

import (
	"context"

	"clubhub-backend-go/internal/models"
)

// ClubRepository defines the storage operations on club documents.
type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) (string, error) // Returns new club ID
	GetByID(ctx context.Context, clubID string) (*models.Club, error)
	GetBySlug(ctx context.Context, slug string) (*models.Club, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Club, error)
	// ListForUser returns every club the user is a member of, deduplicated,
	// in no particular order.
	ListForUser(ctx context.Context, userID string) ([]*models.Club, error)
	ListIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, clubID string, patch models.ClubPatch) error
	// Delete removes the club together with all of its subcollections.
	Delete(ctx context.Context, clubID string) error
	RecountMembers(ctx context.Context, clubID string) (models.CountReconciliation, error)
}

// MemberRepository defines the storage operations on a club's members.
// Adds and deletes keep Club.memberCount and the membership index in step
// within the same transaction.
type MemberRepository interface {
	Add(ctx context.Context, clubID string, member *models.Member) (string, error)
	Get(ctx context.Context, clubID, memberID string) (*models.Member, error)
	List(ctx context.Context, clubID string, opts ListOptions) ([]*models.Member, error)
	Update(ctx context.Context, clubID, memberID string, patch models.MemberPatch) error
	Delete(ctx context.Context, clubID, memberID string) error
	// ListByUser scans the members of every club for the given user.
	ListByUser(ctx context.Context, userID string) ([]*models.Member, error)
}

// UserClubIndex maintains the userId -> clubIds membership index.
type UserClubIndex interface {
	ClubIDs(ctx context.Context, userID string) ([]string, error)
	// IndexedUserIDs lists every user holding at least one index entry.
	IndexedUserIDs(ctx context.Context) ([]string, error)
	RebuildForUser(ctx context.Context, userID string) error
}

// PaymentRepository defines the storage operations on a club's payments.
type PaymentRepository interface {
	Create(ctx context.Context, clubID string, payment *models.Payment) (string, error)
	// CreateBulk writes one payment per member from a shared template, all
	// or nothing, and returns the new IDs in member order.
	CreateBulk(ctx context.Context, clubID string, members []*models.Member, tmpl models.PaymentTemplate) ([]string, error)
	Get(ctx context.Context, clubID, paymentID string) (*models.Payment, error)
	List(ctx context.Context, clubID string, opts ListOptions) ([]*models.Payment, error)
	Update(ctx context.Context, clubID, paymentID string, patch models.PaymentPatch) error
}

// InvoiceRepository defines the storage operations on a club's invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, clubID string, invoice *models.Invoice) (string, error)
	Get(ctx context.Context, clubID, invoiceID string) (*models.Invoice, error)
	List(ctx context.Context, clubID string, opts ListOptions) ([]*models.Invoice, error)
}

// EventRepository defines the storage operations on a club's events.
type EventRepository interface {
	Create(ctx context.Context, clubID string, event *models.Event) (string, error)
	Get(ctx context.Context, clubID, eventID string) (*models.Event, error)
	List(ctx context.Context, clubID string, opts ListOptions) ([]*models.Event, error)
}

// AttendanceRepository defines the storage operations on attendance records.
type AttendanceRepository interface {
	Record(ctx context.Context, clubID string, attendance *models.Attendance) (string, error)
	List(ctx context.Context, clubID string, opts ListOptions) ([]*models.Attendance, error)
}

// DocumentRepository defines the storage operations on club document metadata.
type DocumentRepository interface {
	Add(ctx context.Context, clubID string, doc *models.ClubDocument) (string, error)
	List(ctx context.Context, clubID string, opts ListOptions) ([]*models.ClubDocument, error)
}

// UserRepository defines the storage operations on user profiles.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, userID string, patch models.UserPatch) error
	AddClub(ctx context.Context, userID, clubID string) error
	RemoveClub(ctx context.Context, userID, clubID string) error
}

// AuditRepository defines the storage operations on a club's audit trail.
type AuditRepository interface {
	Create(ctx context.Context, clubID string, logEntry models.AuditLog) error
	List(ctx context.Context, clubID string, opts ListOptions) ([]*models.AuditLog, error)
}

// toUpdates converts patch field changes to store updates.
func toUpdates(changes []models.FieldChange) []Update {
	updates := make([]Update, 0, len(changes)+1)
	for _, c := range changes {
		updates = append(updates, Update{Path: c.Path, Value: c.Value})
	}
	return updates
}
