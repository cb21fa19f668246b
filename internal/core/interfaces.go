package core

import (
	"context"

	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

// UserService defines the operations on a user's own profile.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error)
}

// ClubService defines the club-level operations. Every method except
// GetPortal acts on behalf of userID.
type ClubService interface {
	CreateClub(ctx context.Context, userID string, req models.CreateClubRequest) (*models.Club, error)
	GetClub(ctx context.Context, userID, clubID string) (*models.Club, error)
	// GetPortal returns the public view of an active club.
	GetPortal(ctx context.Context, slug string) (*models.ClubPortal, error)
	ListOwnedClubs(ctx context.Context, userID string) ([]*models.Club, error)
	ListMemberClubs(ctx context.Context, userID string) ([]*models.Club, error)
	UpdateClub(ctx context.Context, userID, clubID string, patch models.ClubPatch) (*models.Club, error)
	DeleteClub(ctx context.Context, userID, clubID string) error
	ReconcileMemberCount(ctx context.Context, userID, clubID string) (models.CountReconciliation, error)
}

// MemberService defines the operations on a club's members.
type MemberService interface {
	AddMember(ctx context.Context, userID, clubID string, member models.Member) (*models.Member, error)
	GetMember(ctx context.Context, userID, clubID, memberID string) (*models.Member, error)
	ListMembers(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.Member, error)
	UpdateMember(ctx context.Context, userID, clubID, memberID string, patch models.MemberPatch) (*models.Member, error)
	DeleteMember(ctx context.Context, userID, clubID, memberID string) error
}

// PaymentService defines the operations on a club's payments.
type PaymentService interface {
	CreatePayment(ctx context.Context, userID, clubID string, req models.CreatePaymentRequest) (*models.Payment, error)
	// CreateBulkPayments charges every listed member, or every active member
	// when none are listed, in one atomic write.
	CreateBulkPayments(ctx context.Context, userID, clubID string, req models.BulkPaymentRequest) ([]string, error)
	ListPayments(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.Payment, error)
	UpdatePayment(ctx context.Context, userID, clubID, paymentID string, patch models.PaymentPatch) (*models.Payment, error)
}

// InvoiceService defines the operations on a club's invoices.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, userID, clubID string, req models.CreateInvoiceRequest) (*models.Invoice, error)
	ListInvoices(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.Invoice, error)
}

// EventService defines the operations on a club's events and attendance.
type EventService interface {
	CreateEvent(ctx context.Context, userID, clubID string, event models.Event) (*models.Event, error)
	ListEvents(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.Event, error)
	RecordAttendance(ctx context.Context, userID, clubID string, attendance models.Attendance) (*models.Attendance, error)
	ListAttendance(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.Attendance, error)
}

// DocumentService defines the operations on a club's document metadata.
type DocumentService interface {
	AddDocument(ctx context.Context, userID, clubID string, doc models.ClubDocument) (*models.ClubDocument, error)
	ListDocuments(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.ClubDocument, error)
}

// AuditService defines the audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
	ListAuditLogs(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.AuditLog, error)
}
