package models

import "time"

// Audit actions recorded against a club.
const (
	AuditClubCreate        = "CLUB_CREATE"
	AuditClubUpdate        = "CLUB_UPDATE"
	AuditMemberAdd         = "MEMBER_ADD"
	AuditMemberUpdate      = "MEMBER_UPDATE"
	AuditMemberDelete      = "MEMBER_DELETE"
	AuditPaymentCreate     = "PAYMENT_CREATE"
	AuditPaymentBulkCreate = "PAYMENT_BULK_CREATE"
	AuditPaymentUpdate     = "PAYMENT_UPDATE"
	AuditInvoiceCreate     = "INVOICE_CREATE"
	AuditEventCreate       = "EVENT_CREATE"
	AuditDocumentAdd       = "DOCUMENT_ADD"
	AuditCountReconcile    = "MEMBER_COUNT_RECONCILE"
)

// AuditLog is one entry of a club's audit trail.
type AuditLog struct {
	ID         string            `json:"id" firestore:"id"`
	ClubID     string            `json:"clubId" firestore:"clubId"`
	Timestamp  time.Time         `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	UserID     string            `json:"userId" firestore:"userId"` // who performed the action
	Action     string            `json:"action" firestore:"action"`
	TargetType string            `json:"targetType,omitempty" firestore:"targetType,omitempty"` // e.g. "MEMBER", "PAYMENT"
	TargetID   string            `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	Details    map[string]string `json:"details,omitempty" firestore:"details,omitempty"`
}
